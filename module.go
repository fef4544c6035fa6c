package inject

// ModuleOption represents a registration action within a module.
type ModuleOption func(*Container) error

// NewModule creates a new module with the given name and builders.
// Modules are a way to group related provider registrations together.
//
// Example:
//
//	var DatabaseModule = inject.NewModule("database",
//	    inject.WithProvider(inject.NewSingleton(NewDatabaseConnection)),
//	    inject.WithProvider(inject.NewFactory(NewUserRepository)),
//	)
//
//	var AppModule = inject.NewModule("app",
//	    DatabaseModule,
//	    inject.WithProvider(inject.NewObject(cfg)),
//	)
//
//	err := inject.Apply(c, AppModule)
func NewModule(name string, builders ...ModuleOption) ModuleOption {
	return func(c *Container) error {
		// Execute all builders in order
		for _, builder := range builders {
			if builder == nil {
				continue
			}

			if err := builder(c); err != nil {
				return ModuleError{Module: name, Cause: err}
			}
		}

		return nil
	}
}

// WithProvider creates a ModuleOption that registers the provider.
func WithProvider[T any](provider Provider[T], opts ...RegisterOption) ModuleOption {
	return func(c *Container) error {
		return Register(c, provider, opts...)
	}
}

// Apply runs the given module options against the container.
func Apply(c *Container, modules ...ModuleOption) error {
	if c == nil {
		return ErrContainerNil
	}

	for _, module := range modules {
		if module == nil {
			continue
		}

		if err := module(c); err != nil {
			return err
		}
	}

	return nil
}
