package cmd

import (
	"fmt"
	"os/exec"
	"runtime"
)

// findExecutable wraps exec.LookPath for testability.
var findExecutable = exec.LookPath

// execCommand wraps exec.Command for testability.
var execCommand = exec.Command

// openBrowser starts the platform URL opener without waiting for it.
func openBrowser(url string) error {
	var name string
	var args []string
	switch runtime.GOOS {
	case "darwin":
		name = "open"
	case "windows":
		name, args = "rundll32", []string{"url.dll,FileProtocolHandler"}
	default:
		name = "xdg-open"
	}

	path, err := findExecutable(name)
	if err != nil {
		return fmt.Errorf("%s not found in PATH", name)
	}
	return execCommand(path, append(args, url)...).Start()
}
