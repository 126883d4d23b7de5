package system

// NewCursor creates the Cursor editor system. Cursor reads global servers
// from ~/.cursor/mcp.json.
func NewCursor() *System {
	return &System{
		name:        "cursor",
		displayName: "Cursor",
		configPath:  "~/.cursor/mcp.json",
		configKey:   "mcpServers",
		detectPaths: []string{"~/.cursor"},
	}
}

func init() { Register(NewCursor()) }
