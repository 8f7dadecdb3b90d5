package command

var registry = map[string]Command{}

func Register(cmd Command) {
	registry[cmd.Name()] = cmd
	for _, a := range cmd.Aliases() {
		registry[a] = cmd
	}
}

func Get(name string) (Command, bool) {
	cmd, ok := registry[name]
	return cmd, ok
}

func All() []Command {
	seen := map[string]bool{}
	var list []Command
	for _, cmd := range registry {
		if seen[cmd.Name()] {
			continue
		}
		list = append(list, cmd)
		seen[cmd.Name()] = true
	}
	return list
}

// GetComponentHandler finds the command owning a component namespace. The
// match is exact: "player" routes to the player panel, "players" to nothing.
func GetComponentHandler(namespace string) (ComponentHandler, bool) {
	for _, cmd := range All() {
		if h, ok := cmd.(ComponentHandler); ok && h.ComponentNamespace() == namespace {
			return h, true
		}
	}
	return nil, false
}
