package main

import "mlactions/internal/runtime"

func runtimeSetupResult(name, state string, lines ...string) runtime.SetupResult {
	return runtime.SetupResult{Action: name, State: runtime.State(state), Status: lines}
}
