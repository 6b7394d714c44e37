// internal/providerfactory/factory.go
package providerfactory

import (
	"fmt"
	"strings"

	"github.com/mwiater/evalon/internal/appconfig"
	"github.com/mwiater/evalon/internal/providers"
	"github.com/mwiater/evalon/internal/providers/ollama"
)

// NewChatClient selects and configures the appropriate chat client for a host
// based on its configured type. Ollama-compatible HTTP hosts are the default;
// llama.cpp servers expose the same chat surface and share the client.
func NewChatClient(cfg *appconfig.Config, host appconfig.Host) (providers.ChatClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config provided to provider factory")
	}

	switch strings.ToLower(strings.TrimSpace(host.Type)) {
	case "", "ollama", "llama.cpp":
		return ollama.New(cfg), nil
	default:
		return nil, fmt.Errorf("unknown host type %q for host %q", host.Type, host.Name)
	}
}
