package reconcileavailability

const (
	commandType = "ReconcileAvailability"
)

// Command represents the intent to repair stale availability flags.
type Command struct{}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command.
func BuildCommand() Command {
	return Command{}
}
