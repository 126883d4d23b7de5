package system

// NewGeminiCLI creates the Gemini CLI system. Its settings file holds other
// preferences next to the server map; they are preserved on merge.
func NewGeminiCLI() *System {
	return &System{
		name:        "gemini-cli",
		displayName: "Gemini CLI",
		configPath:  "~/.gemini/settings.json",
		configKey:   "mcpServers",
		detectPaths: []string{"~/.gemini"},
	}
}

func init() { Register(NewGeminiCLI()) }
