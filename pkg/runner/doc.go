/*
Package runner replays scripted diagram sessions against a headless engine.

A Script is a sequence of steps: topology snapshots, pointer interactions,
clicks, container resizes and user controls. The Runner feeds them to a
render.Coordinator over a memory engine and records, per step, the decision
taken and the resulting diagram state. The resulting Report renders as
markdown, which is how `dagview replay` prints it.

# Usage

	script, err := runner.LoadScript("session.yaml")
	if err != nil {
		log.Fatal(err)
	}

	report, err := runner.NewRunner(runner.WithLogger(logger)).Run(ctx, script)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(report.Markdown())
*/
package runner
