package inject_test

import (
	"context"
	"fmt"

	"github.com/injectio/inject"
)

type Greeter struct {
	Greeting string
}

func (g *Greeter) Greet(name string) string {
	return g.Greeting + ", " + name
}

func ExampleProvide() {
	provider := inject.NewObject(&Greeter{Greeting: "Hello"})
	m := inject.Provide[*Greeter](provider)

	// Invoking a marker returns the marker itself; nothing is resolved.
	fmt.Println(m.Invoke() == m)

	// Substitution happens in the resolution functions.
	greeter, _ := inject.Resolved(context.Background(), m)
	fmt.Println(greeter.Greet("world"))

	// Output:
	// true
	// Hello, world
}

func ExampleCall() {
	greeter := inject.Provide[*Greeter](inject.NewObject(&Greeter{Greeting: "Hi"}))

	results, _ := inject.Call(context.Background(), func(g *Greeter, name string) string {
		return g.Greet(name)
	}, greeter, "there")

	fmt.Println(results[0])
	// Output: Hi, there
}

func ExampleBind() {
	greeter := inject.Provide[*Greeter](inject.NewObject(&Greeter{Greeting: "Hey"}))

	greet, _ := inject.Bind(func(name string, g *Greeter) string {
		return g.Greet(name)
	}, greeter)

	results, _ := greet(context.Background(), "you")
	fmt.Println(results[0])
	// Output: Hey, you
}

func ExampleContainer() {
	ctx := context.Background()

	c := inject.NewContainer()
	defer c.Close()

	_ = inject.Register(c, inject.NewSingleton(func(ctx context.Context) (*Greeter, error) {
		return &Greeter{Greeting: "Hello"}, nil
	}))

	greeter, _ := inject.Resolve[*Greeter](ctx, c)
	fmt.Println(greeter.Greet("container"))
	// Output: Hello, container
}

func ExampleContainer_Invoke() {
	ctx := context.Background()

	c := inject.NewContainer()
	defer c.Close()

	_ = inject.Register(c, inject.NewObject(&Greeter{Greeting: "Hello"}))

	_ = c.Invoke(ctx, func(g *Greeter) {
		fmt.Println(g.Greet("invoke"))
	})
	// Output: Hello, invoke
}

func ExampleNewSingleton() {
	ctx := context.Background()

	provider := inject.NewSingleton(func(ctx context.Context) (*Greeter, error) {
		return &Greeter{Greeting: "Hello"}, nil
	})

	provider.Override(&Greeter{Greeting: "Fake"})
	defer provider.ResetOverride()

	g, _ := provider.Instance(ctx)
	fmt.Println(g.Greet("test"))
	// Output: Fake, test
}
