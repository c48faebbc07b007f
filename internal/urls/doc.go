// Package urls provides centralized constants for the project and
// documentation URLs printed by the CLI and the terminal calculator.
//
// Usage:
//
//	import "github.com/muurk/smartcalc/internal/urls"
//
//	fmt.Printf("For more information, see: %s\n", urls.ServerGuide)
package urls
