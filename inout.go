package inject

import (
	"github.com/injectio/inject/internal/reflection"
)

// In marks a struct as a parameter object for Container.Fill and
// Container.Invoke. When a struct embeds In, its exported fields are
// populated from the container.
//
// Supported field tags:
//   - `optional:"true"` - Field is left zero instead of failing when the
//     service is not registered
//   - `name:"serviceName"` - Field is resolved as a named service
//
// Example:
//
//	type HandlerParams struct {
//	    inject.In
//
//	    Database *sql.DB
//	    Logger   Logger `optional:"true"`
//	    Cache    Cache  `name:"redis"`
//	}
//
// The In struct must be embedded anonymously:
//
//	type HandlerParams struct {
//	    inject.In  // ✓ Correct - anonymous embedding
//	    // ...
//	}
//
//	type HandlerParams struct {
//	    In inject.In  // ✗ Wrong - named field
//	    // ...
//	}
type In = reflection.In
