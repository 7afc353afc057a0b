package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// Every generator reads flagRegistry, so a new flag only needs one entry.
type FlagCompletion struct {
	Long      string   // long flag name without "--"
	Short     string   // short flag without "-"
	Help      string   // description text
	Values    []string // suggested values (nil = boolean or free-form)
	ValueName string   // label for the value in zsh; empty for booleans
	IsFile    bool     // true if the flag takes a file path
}

var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Short: "V", Help: "Show version information"},
	{Long: "rounds", Short: "r", Help: "Number of trials to simulate", Values: []string{"1000", "100000", "1000000", "10000000"}, ValueName: "count"},
	{Long: "workers", Short: "t", Help: "Number of concurrent workers", ValueName: "count"},
	{Long: "output", Short: "o", Help: "Print one line per trial"},
	{Long: "seed", Help: "Seed for a reproducible run", ValueName: "seed"},
	{Long: "partition", Help: "Work partitioning strategy", Values: []string{"static", "dynamic"}, ValueName: "strategy"},
	{Long: "chunk", Help: "Trials claimed per step", Values: []string{"0", "256", "1024", "4096"}, ValueName: "size"},
	{Long: "sink", Help: "Diagnostic sink", Values: []string{"channel", "locked"}, ValueName: "sink"},
	{Long: "quiet", Short: "q", Help: "Print only the result lines"},
	{Long: "details", Short: "d", Help: "Show memory and throughput statistics"},
	{Long: "no-color", Help: "Disable colored output"},
	{Long: "metrics-addr", Help: "Serve Prometheus metrics while the run is in progress", ValueName: "address"},
	{Long: "log-level", Help: "Log level", Values: []string{"debug", "info", "warn", "error"}, ValueName: "level"},
	{Long: "calibrate", Help: "Time short runs over candidate worker counts"},
	{Long: "config", Help: "YAML configuration file", IsFile: true, ValueName: "file"},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish"}, ValueName: "shell"},
}

// GenerateCompletion writes a completion script for shell to out.
func GenerateCompletion(out io.Writer, shell string) error {
	var script string
	switch shell {
	case "bash":
		script = bashCompletion()
	case "zsh":
		script = zshCompletion()
	case "fish":
		script = fishCompletion()
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish)", shell)
	}
	if _, err := io.WriteString(out, script); err != nil {
		return fmt.Errorf("completion %s generation failed: %w", shell, err)
	}
	return nil
}

func flagNames(f FlagCompletion) []string {
	var names []string
	if f.Long != "" {
		names = append(names, "--"+f.Long)
	}
	if f.Short != "" {
		names = append(names, "-"+f.Short)
	}
	return names
}

func bashCompletion() string {
	var opts []string
	var cases strings.Builder
	for _, f := range flagRegistry {
		names := flagNames(f)
		opts = append(opts, names...)
		switch {
		case f.IsFile:
			fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=( $(compgen -f -- \"${cur}\") )\n            return 0\n            ;;\n",
				strings.Join(names, "|"))
		case len(f.Values) > 0:
			fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n            return 0\n            ;;\n",
				strings.Join(names, "|"), strings.Join(f.Values, " "))
		}
	}

	return fmt.Sprintf(`# Bash completion script for montyhall
# Add this to your ~/.bashrc or ~/.bash_completion

_montyhall_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    opts="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _montyhall_completions montyhall
`, strings.Join(opts, " "), cases.String())
}

func zshCompletion() string {
	var args []string
	for _, f := range flagRegistry {
		args = append(args, zshArgEntry(f))
	}
	return fmt.Sprintf(`#compdef montyhall

# Zsh completion script for montyhall
# Add this to your ~/.zshrc or place in $fpath

_montyhall() {
    _arguments -s \
%s
}

_montyhall "$@"
`, strings.Join(args, " \\\n"))
}

// zshArgEntry formats a single FlagCompletion as a zsh _arguments entry.
func zshArgEntry(f FlagCompletion) string {
	valueSuffix := ""
	switch {
	case f.IsFile:
		valueSuffix = fmt.Sprintf(":%s:_files", f.ValueName)
	case len(f.Values) > 0:
		valueSuffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	case f.ValueName != "":
		valueSuffix = fmt.Sprintf(":%s:", f.ValueName)
	}

	if f.Long != "" && f.Short != "" {
		return fmt.Sprintf("        '(-%s --%s)'{-%s,--%s}'[%s]%s'",
			f.Short, f.Long, f.Short, f.Long, f.Help, valueSuffix)
	}
	return fmt.Sprintf("        '--%s[%s]%s'", f.Long, f.Help, valueSuffix)
}

func fishCompletion() string {
	lines := []string{
		"# Fish completion script for montyhall",
		"# Add this to ~/.config/fish/completions/montyhall.fish",
		"",
		"complete -c montyhall -f",
	}
	for _, f := range flagRegistry {
		parts := []string{"complete -c montyhall"}
		if f.Short != "" {
			parts = append(parts, "-s "+f.Short)
		}
		parts = append(parts, "-l "+f.Long, fmt.Sprintf("-d '%s'", f.Help))
		switch {
		case f.IsFile:
			parts = append(parts, "-rF")
		case len(f.Values) > 0:
			parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
		case f.ValueName != "":
			parts = append(parts, "-x")
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return strings.Join(lines, "\n") + "\n"
}
