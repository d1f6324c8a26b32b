// Package ai produces replies from a generative-language model.
package ai

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/zhouzirui/daptic/internal/model/chat"
)

// Request is one generation call.
type Request struct {
	System  string
	Prompt  string
	History []chat.Message
}

// Generator turns a request into reply text. An empty string means the model
// answered without text.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// UpstreamError is a non-success status returned by the model API.
type UpstreamError struct {
	Status  int
	Details string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("remote API returned status %d: %s", e.Status, e.Details)
}

// LoadInstruction reads the system instruction file. A missing or unreadable
// file yields an empty instruction.
func LoadInstruction(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[ai] failed to read instruction file %s: %v", path, err)
		}
		return ""
	}
	return strings.TrimSpace(string(data))
}
