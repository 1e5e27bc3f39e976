package entities

import (
	"fmt"
	"runtime"
	"strings"
)

const defaultPythonVersion = "3.12"

// markerVariables lists the variables an environment marker may reference.
var markerVariables = map[string]bool{
	"python_version":                 true,
	"python_full_version":            true,
	"os_name":                        true,
	"sys_platform":                   true,
	"platform_release":               true,
	"platform_system":                true,
	"platform_version":               true,
	"platform_machine":               true,
	"platform_python_implementation": true,
	"implementation_name":            true,
	"implementation_version":         true,
	"extra":                          true,
}

// legacyMarkerVariables maps the dotted spellings older tools still emit.
var legacyMarkerVariables = map[string]string{
	"os.name":                        "os_name",
	"sys.platform":                   "sys_platform",
	"platform.version":               "platform_version",
	"platform.machine":               "platform_machine",
	"platform.python_implementation": "platform_python_implementation",
	"python_implementation":          "platform_python_implementation",
}

// Environment holds the values markers are evaluated against.
type Environment map[string]string

// DefaultEnvironment describes a CPython interpreter on the current host.
func DefaultEnvironment() Environment {
	return NewPythonEnvironment(defaultPythonVersion, runtime.GOOS, runtime.GOARCH)
}

// NewPythonEnvironment builds an environment for the given interpreter
// version ("3.7" or "3.7.4") and Go-style OS/architecture names.
func NewPythonEnvironment(pythonVersion, goos, goarch string) Environment {
	short, full := splitPythonVersion(pythonVersion)
	env := Environment{
		"python_version":                 short,
		"python_full_version":            full,
		"implementation_name":            "cpython",
		"implementation_version":         full,
		"platform_python_implementation": "CPython",
		"platform_release":               "",
		"platform_version":               "",
		"extra":                          "",
	}
	env.SetPlatform(goos)
	env["platform_machine"] = machineName(goarch)
	return env
}

// SetPlatform updates the OS-dependent variables from a Go-style OS name.
// Python-style names ("win32", "Linux") are accepted too.
func (e Environment) SetPlatform(goos string) {
	switch strings.ToLower(goos) {
	case "windows", "win32":
		e["os_name"], e["sys_platform"], e["platform_system"] = "nt", "win32", "Windows"
	case "darwin", "macos":
		e["os_name"], e["sys_platform"], e["platform_system"] = "posix", "darwin", "Darwin"
	case "freebsd":
		e["os_name"], e["sys_platform"], e["platform_system"] = "posix", "freebsd", "FreeBSD"
	default:
		e["os_name"], e["sys_platform"], e["platform_system"] = "posix", "linux", "Linux"
	}
}

// SetPythonVersion updates the interpreter version variables.
func (e Environment) SetPythonVersion(version string) {
	short, full := splitPythonVersion(version)
	e["python_version"] = short
	e["python_full_version"] = full
	e["implementation_version"] = full
}

// Merge returns a copy of e with overrides applied. Unknown keys are rejected.
func (e Environment) Merge(overrides map[string]string) (Environment, error) {
	merged := make(Environment, len(e)+len(overrides))
	for k, v := range e {
		merged[k] = v
	}
	for k, v := range overrides {
		name := canonicalMarkerVariable(k)
		if !markerVariables[name] {
			return nil, fmt.Errorf("%w: unknown variable %q", ErrInvalidMarker, k)
		}
		merged[name] = v
	}
	return merged, nil
}

func canonicalMarkerVariable(name string) string {
	if canonical, ok := legacyMarkerVariables[name]; ok {
		return canonical
	}
	return name
}

func splitPythonVersion(version string) (string, string) {
	parts := strings.Split(strings.TrimSpace(version), ".")
	for len(parts) < 2 {
		parts = append(parts, "0")
	}
	short := parts[0] + "." + parts[1]
	if len(parts) == 2 {
		return short, short + ".0"
	}
	return short, strings.Join(parts, ".")
}

func machineName(goarch string) string {
	switch goarch {
	case "amd64":
		return "x86_64"
	case "386":
		return "i686"
	case "arm64":
		return "aarch64"
	default:
		return goarch
	}
}
