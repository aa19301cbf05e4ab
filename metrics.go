package debitcard

type (
	// Metrics a structured metrics interface
	Metrics interface {
		ReceivedCommand(commandName string)
		FinishCommand(commandName string, success bool)
		VersionConflict(commandName string)
	}
)
