package transformlab

type Commands struct {
	app *App
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

// Quit asks the App to stop after the current frame finishes.
func (cmd *Commands) Quit() {
	cmd.app.quit()
}
