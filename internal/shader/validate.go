package shader

import (
	"fmt"

	"github.com/gogpu/naga"
)

// ValidateWGSL compiles code with naga and reports the first diagnostic.
func ValidateWGSL(code string) error {
	if _, err := naga.Compile(code); err != nil {
		return fmt.Errorf("invalid WGSL: %w", err)
	}
	return nil
}
