package factory

import (
	"WSNSpectra/internal/config"
	"WSNSpectra/internal/model"
	"fmt"
	"log"
	"sort"
)

// TaskGroup is a logical grouping of tasks and their associated writers.
type TaskGroup struct {
	Tasks   []model.Task
	Writers []model.Writer
}

// TaskFactory defines a function that creates a task from its definition.
type TaskFactory func(def config.TaskDef) (model.Task, error)

// WriterFactory defines a function that creates a writer from its definition.
type WriterFactory func(def config.WriterDef, cfg *config.Config) (model.Writer, error)

// registries hold the mapping of task and writer types to their factory functions.
var (
	taskRegistry   = make(map[string]TaskFactory)
	writerRegistry = make(map[string]WriterFactory)
)

// RegisterTask registers a new task type with its factory function.
func RegisterTask(name string, factory TaskFactory) {
	if _, exists := taskRegistry[name]; exists {
		panic(fmt.Sprintf("task type '%s' already registered", name))
	}
	taskRegistry[name] = factory
}

// RegisterWriter registers a new writer type with its factory function.
func RegisterWriter(name string, factory WriterFactory) {
	if _, exists := writerRegistry[name]; exists {
		panic(fmt.Sprintf("writer type '%s' already registered", name))
	}
	writerRegistry[name] = factory
}

// TaskTypes lists the registered task types.
func TaskTypes() []string {
	names := make([]string, 0, len(taskRegistry))
	for name := range taskRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create builds the tasks and enabled writers described by the config.
// An unknown task type is an error; a writer that cannot be created is skipped with a warning.
func Create(cfg *config.Config) (*TaskGroup, error) {
	group := &TaskGroup{}

	for _, def := range cfg.Aggregator.Tasks {
		factory, ok := taskRegistry[def.Type]
		if !ok {
			return nil, fmt.Errorf("unknown task type '%s' for task '%s'", def.Type, def.Name)
		}
		task, err := factory(def)
		if err != nil {
			return nil, fmt.Errorf("error creating task '%s': %w", def.Name, err)
		}
		log.Printf("Created task '%s' of type '%s'\n", def.Name, def.Type)
		group.Tasks = append(group.Tasks, task)
	}

	for _, def := range cfg.Aggregator.Writers {
		if !def.Enabled {
			continue
		}
		factory, ok := writerRegistry[def.Type]
		if !ok {
			log.Printf("Warning: unknown writer type '%s' in config, skipping.", def.Type)
			continue
		}
		writer, err := factory(def, cfg)
		if err != nil {
			log.Printf("Warning: failed to create writer type '%s': %v, skipping.", def.Type, err)
			continue
		}
		group.Writers = append(group.Writers, writer)
	}

	return group, nil
}
