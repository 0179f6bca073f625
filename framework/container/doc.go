// Package container provides a lazy singleton registry for stockroom's
// services and controllers.
//
// Every service is declared once at bootstrap with an explicit factory and
// the ordered list of tokens it depends on:
//
//	c := container.New()
//	c.Instance("config", cfg)
//	c.Declare("store", func(c *container.Container) (any, error) {
//	    return store.NewMemory(), nil
//	})
//	c.Declare("services.users", func(c *container.Container) (any, error) {
//	    st, err := container.Resolve[store.Store](c, "store")
//	    if err != nil {
//	        return nil, err
//	    }
//	    return services.NewUserService(st), nil
//	}, "store")
//
// Resolve constructs on first use, memoizes, and hands back the identical
// instance on every later call:
//
//	svc, err := container.Resolve[*services.UserService](c, "services.users")
//
// Resolving an undeclared token fails with a ResolutionError naming it.
// GetAll returns every constructed instance in construction order, and
// Teardown invokes the optional Shutdowner hook in that same order before
// clearing the registry, which is what hot restarts use.
package container
