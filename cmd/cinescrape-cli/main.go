package main

import (
	"cinescrape/cmd/cinescrape-cli/commands"
	"cinescrape/lib/serviceutil"
	"cinescrape/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()
	telemetry.SetupFromEnv(ctx, "cinescrape-cli")
	telemetry.InitSlog(true)
	commands.ExecuteContext(ctx)
}
