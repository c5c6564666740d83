package transformlab

import (
	"fmt"
	"reflect"
	"runtime"
)

type systemFn any

// Module installs resources and systems into an App.
type Module interface {
	Install(app *App, cmd *Commands)
}

// App owns all demo state. Every mutable piece of the demo lives in the
// resource registry and is handed to systems by reference; there are no
// package-level globals. Systems run single-threaded, stage by stage, once
// per frame.
type App struct {
	stages    []Stage
	systems   map[string][]systemFn
	resources map[reflect.Type]any

	quitRequested bool
}

func (app *App) Commands() *Commands {
	return &Commands{
		app: app,
	}
}

// Run executes all stages in order until a quit is requested. Within one
// frame, PreUpdate systems (input polling) run strictly before Update
// systems (camera and scene mutation), which run strictly before Render
// systems, so every draw submission of a frame sees the same matrix
// snapshot.
func (app *App) Run() {
	for !app.quitRequested {
		for _, stage := range app.stages {
			for _, system := range app.systems[stage.Name] {
				app.callSystem(system)
			}
		}
	}
}

func (app *App) quit() {
	app.quitRequested = true
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// mustResource fetches an installed resource during module installation.
// Used for cross-module wiring; a missing resource means the modules were
// assembled in the wrong order, which is a programming error.
func mustResource[T any](app *App) *T {
	t := reflect.TypeOf((*T)(nil)).Elem()
	resource, ok := app.resources[t]
	if !ok {
		panic(fmt.Sprintf("required resource %s is not installed", t))
	}
	return resource.(*T)
}

var typeOfCommands = reflect.TypeOf(Commands{})

// callSystem resolves each pointer parameter of the system function from
// the resource registry (or injects a fresh *Commands) and invokes it.
func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		underlyingType := argType.Elem()

		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
		} else if resource, argIsResource := app.resources[underlyingType]; argIsResource {
			args[i] = reflect.ValueOf(resource)
		} else {
			msg := fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
				runtime.FuncForPC(systemValue.Pointer()).Name(),
				fmt.Sprint(systemType),
				fmt.Sprint(argType),
			)
			panic(msg)
		}
	}
	systemValue.Call(args)
}

// Logger returns the first Logger resource if present, otherwise a no-op
// logger. Safe to call at any time; never returns nil.
func (app *App) Logger() Logger {
	if app == nil {
		return NewNopLogger()
	}
	if app.resources != nil {
		for _, r := range app.resources {
			if l, ok := r.(Logger); ok {
				return l
			}
		}
	}
	return NewNopLogger()
}
