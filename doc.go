// Package inject provides marker-based dependency injection for Go
// applications. Dependencies are declared as typed markers wrapping
// providers, and substituted with real instances by the resolution
// functions at call time.
//
// # Overview
//
// inject is built around three pieces:
//   - Providers: values that know how to produce an instance
//     (Object, Factory, Singleton)
//   - Markers: immutable, typed placeholders wrapping a provider
//   - Resolution: functions that recognize markers and substitute
//     resolved instances before your code runs
//
// # Markers
//
// A marker is created from a provider and stands in for a dependency
// until it is resolved:
//
//	var userRepo = inject.Provide[*UserRepo](inject.NewSingleton(NewUserRepo))
//
// A marker never resolves anything on its own. Invoking it returns the
// marker itself, signaling that no substitution has happened yet:
//
//	m := inject.Provide[int](inject.NewObject(42))
//	same := m.Invoke() // same == m, not 42
//
// Substitution is performed by the resolution functions:
//
//	n, err := inject.Resolved(ctx, m) // n == 42
//
// # Providers
//
// Three provider kinds cover the usual lifetimes:
//
//	inject.NewObject(cfg)            // fixed value
//	inject.NewFactory(NewHandler)    // new instance per resolution
//	inject.NewSingleton(NewDatabase) // one shared instance, lazily built
//
// Every provider supports Override for tests:
//
//	dbProvider.Override(fakeDB)
//	defer dbProvider.ResetOverride()
//
// # Calling functions with markers
//
// Call substitutes marker arguments with resolved values before
// invoking the function:
//
//	results, err := inject.Call(ctx, handleSignup, userRepo, req)
//
// Bind pre-binds trailing defaults, resolving marker defaults on every
// invocation:
//
//	bound, err := inject.Bind(handleSignup, userRepo)
//	results, err := bound(ctx, req)
//
// # Containers
//
// A Container is a typed registry of providers for applications that
// prefer lookup by type over passing markers around:
//
//	c := inject.NewContainer()
//	inject.Register(c, inject.NewSingleton(NewDatabase))
//	inject.Register(c, inject.NewFactory(NewUserRepo), inject.Name("users"))
//
//	db, err := inject.Resolve[*Database](ctx, c)
//	repo, err := inject.ResolveNamed[*UserRepo](ctx, c, "users")
//
// Containers also support parameter objects with embedded inject.In:
//
//	type HandlerParams struct {
//	    inject.In
//
//	    DB    *Database
//	    Cache Cache `name:"redis" optional:"true"`
//	}
//
//	var params HandlerParams
//	err := c.Fill(ctx, &params)
//
// # Thread Safety
//
// Markers are immutable and safe for concurrent use without
// coordination. Providers and containers are thread-safe.
//
// # Error Handling
//
// Construction of markers never fails; validation is deferred to
// resolution. Resolution failures are reported with typed errors:
//   - ResolutionError: a provider or registry lookup failed
//   - RegistrationError: a provider could not be registered
//   - InvocationError: Call/Bind/Invoke function validation failed
//   - TypeMismatchError: a resolved value had an unexpected type
//   - DisposalError: container or singleton cleanup failed
package inject
