package transformlab

// Stage is a named slot in the per-frame pipeline. Stages run in the order
// they are listed in defaultStages; systems within a stage run in
// installation order.
type Stage struct {
	Name string
}

var (
	PreUpdate  = Stage{Name: "PreUpdate"}
	Update     = Stage{Name: "Update"}
	PostUpdate = Stage{Name: "PostUpdate"}
	Render     = Stage{Name: "Render"}
)

func defaultStages() []Stage {
	return []Stage{PreUpdate, Update, PostUpdate, Render}
}

type systemScheduleBuilder struct {
	inStage Stage
	system  systemFn
}

func System(system systemFn) systemScheduleBuilder {
	return systemScheduleBuilder{
		system:  system,
		inStage: Update,
	}
}

func (sched systemScheduleBuilder) InStage(s Stage) systemScheduleBuilder {
	return systemScheduleBuilder{
		system:  sched.system,
		inStage: s,
	}
}

func (app *App) UseSystem(sched systemScheduleBuilder) *App {
	app.systems[sched.inStage.Name] = append(app.systems[sched.inStage.Name], sched.system)
	return app
}
