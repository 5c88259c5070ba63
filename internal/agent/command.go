package agent

// promptEnvVar carries the review prompt into the agent process. Passing
// it through the environment avoids nested shell quoting issues that a
// literal argument would hit with prompts containing quotes or newlines.
const promptEnvVar = "WARDEN_PROMPT"

// DefaultCommand is the agent invocation used when none is configured.
const DefaultCommand = "claude -p --dangerously-skip-permissions"

// shellLine builds the shell command line that runs the agent with the
// prompt expanded from the environment. The caller provides the prompt
// via promptEnvVar.
func shellLine(agentCmd string) string {
	if agentCmd == "" {
		agentCmd = DefaultCommand
	}
	return agentCmd + ` "$` + promptEnvVar + `"`
}
