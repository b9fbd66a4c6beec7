package cli

import (
	"fmt"
	"strings"
)

// flagInfo describes a flag for completion scripts.
type flagInfo struct {
	long  string // name without leading dashes
	short string
	value string // value placeholder; empty for switches
	desc  string
}

var globalFlagInfos = []flagInfo{
	{long: "quiet", short: "q", desc: "Minimal output (errors only)"},
	{long: "verbose", short: "v", desc: "Debug output"},
	{long: "config", value: "file", desc: "Configuration file"},
	{long: "help", short: "h", desc: "Show help"},
	{long: "version", desc: "Show version"},
}

var evaluationFlagInfos = []flagInfo{
	{long: "fork", value: "n", desc: "Fork number"},
	{long: "ignore-failures", desc: "Log test failures instead of failing"},
	{long: "fail-on-flake-count", value: "n", desc: "Fail once this many flakes are seen"},
	{long: "no-fail-if-no-tests", desc: "Accept runs that executed no tests"},
}

var supportedShells = []string{"bash", "zsh", "fish"}

// cmdCompletion generates shell completion scripts.
func cmdCompletion(args []string) int {
	shell := ""
	alias := ""

	for _, arg := range args {
		switch {
		case arg == "-h" || arg == "--help":
			printCompletionUsage()
			return 0
		case strings.HasPrefix(arg, "--alias="):
			alias = strings.TrimPrefix(arg, "--alias=")
		case arg == "--alias":
			out.ErrorPrefix("completion: --alias requires a value (--alias=<name>)")
			return 2
		case strings.HasPrefix(arg, "-"):
			out.ErrorPrefix("completion: unknown flag: %s", arg)
			printCompletionUsage()
			return 2
		case shell != "":
			out.ErrorPrefix("completion: unexpected argument: %s", arg)
			return 2
		default:
			shell = arg
		}
	}

	if shell == "" {
		out.ErrorPrefix("completion: shell required (%s)", strings.Join(supportedShells, ", "))
		printCompletionUsage()
		return 2
	}

	cmdName := "forkcheck"
	if alias != "" {
		cmdName = alias
	}

	generators := map[string]func(string) string{
		"bash": generateBashCompletion,
		"zsh":  generateZshCompletion,
		"fish": generateFishCompletion,
	}
	gen, ok := generators[shell]
	if !ok {
		out.ErrorPrefix("completion: unsupported shell %q (use bash, zsh, or fish)", shell)
		return 2
	}
	out.Print("%s", gen(cmdName))
	return 0
}

// printCompletionUsage prints the help text for the completion command.
func printCompletionUsage() {
	w := out

	w.HelpTitle("forkcheck completion - generate shell completion scripts")

	w.HelpSection("Usage:")
	w.HelpUsage("forkcheck completion <shell> [--alias=<name>]")

	w.HelpSection("Arguments:")
	w.HelpFlag("<shell>", "Shell type: bash, zsh, or fish", helpFlagWidthShort)

	w.HelpSection("Options:")
	w.HelpFlag("--alias=<name>", "Generate completion for command alias", 14)
	w.HelpFlag("-h, --help", "Show this help", 14)

	w.HelpSection("Examples:")
	for _, sh := range supportedShells {
		w.HelpExample("forkcheck completion "+sh, "Generate "+sh+" completion")
	}
	w.HelpExample("forkcheck completion bash --alias=fc", "Generate bash completion for alias 'fc'")

	w.HelpSection("Installation:")
	w.Println("  Bash:  eval \"$(forkcheck completion bash)\"")
	w.Println("  Zsh:   eval \"$(forkcheck completion zsh)\"")
	w.Println("  Fish:  forkcheck completion fish | source")
	w.Println("")
}

// allCommands returns every built-in command in help order.
func allCommands() []commandInfo {
	var cmds []commandInfo
	cmds = append(cmds, evaluationCommands...)
	cmds = append(cmds, forkCommands...)
	cmds = append(cmds, utilityCommands...)
	return cmds
}

// builtinCommands returns the list of built-in CLI command names.
func builtinCommands() []string {
	cmds := allCommands()
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.name
	}
	return names
}

// globalFlags returns the long forms of the global flags.
func globalFlags() []string {
	flags := make([]string, len(globalFlagInfos))
	for i, f := range globalFlagInfos {
		flags[i] = "--" + f.long
	}
	return flags
}

// evaluationFlags returns the flags accepted by evaluate and gotest.
// Flags taking a value end with "=".
func evaluationFlags() []string {
	flags := make([]string, len(evaluationFlagInfos))
	for i, f := range evaluationFlagInfos {
		flags[i] = "--" + f.long
		if f.value != "" {
			flags[i] += "="
		}
	}
	return flags
}

// aliasNote explains how to reuse a completion script for an alias.
func aliasNote(cmdName, reuse, generate string) string {
	if cmdName != "forkcheck" {
		return fmt.Sprintf("# This completion is generated for the alias %q\n"+
			"# Make sure you have the alias defined: alias %s=\"forkcheck\"\n", cmdName, cmdName)
	}
	return "# Alias support:\n" +
		"# If you use an alias (e.g., alias fc=\"forkcheck\"), add completion for it:\n" +
		"#   " + reuse + "\n" +
		"# Or generate completion directly for your alias:\n" +
		"#   " + generate + "\n"
}

// funcName turns a command name into a shell function name.
func funcName(cmdName, suffix string) string {
	return "_" + strings.ReplaceAll(cmdName, "-", "_") + suffix
}

func generateBashCompletion(cmdName string) string {
	fn := funcName(cmdName, "_completions")

	var b strings.Builder
	b.WriteString("# forkcheck bash completion\n")
	b.WriteString("# Add to ~/.bashrc: eval \"$(forkcheck completion bash)\"\n")
	b.WriteString(aliasNote(cmdName, "complete -F _forkcheck_completions fc", `eval "$(forkcheck completion bash --alias=fc)"`))
	fmt.Fprintf(&b, `
%s() {
    local cur prev words cword
    _init_completion || return

    local commands=%q
    local flags=%q
    local eval_flags=%q
    local config_subcommands="validate"
    local completion_shells=%q

    case "${prev}" in
        %s)
            COMPREPLY=($(compgen -W "${commands} ${flags}" -- "${cur}"))
            return
            ;;
        config)
            COMPREPLY=($(compgen -W "${config_subcommands}" -- "${cur}"))
            return
            ;;
        completion)
            COMPREPLY=($(compgen -W "${completion_shells}" -- "${cur}"))
            return
            ;;
        --config)
            _filedir
            return
            ;;
    esac

    case "${words[1]}" in
        evaluate|gotest)
            if [[ "${cur}" == -* ]]; then
                COMPREPLY=($(compgen -W "${eval_flags} ${flags}" -- "${cur}"))
            else
                _filedir
            fi
            return
            ;;
    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=($(compgen -W "${flags}" -- "${cur}"))
        return
    fi
    COMPREPLY=($(compgen -W "${commands} ${flags}" -- "${cur}"))
}

complete -F %s %s
`, fn,
		strings.Join(builtinCommands(), " "),
		strings.Join(globalFlags(), " "),
		strings.Join(evaluationFlags(), " "),
		strings.Join(supportedShells, " "),
		cmdName, fn, cmdName)
	return b.String()
}

// zshFlagSpec renders a flag as an _arguments spec.
func zshFlagSpec(f flagInfo) string {
	switch {
	case f.value != "":
		action := ""
		if f.value == "file" {
			action = "_files"
		}
		return fmt.Sprintf("'--%s=[%s]:%s:%s'", f.long, f.desc, f.value, action)
	case f.short != "":
		return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'[%s]'", f.short, f.long, f.short, f.long, f.desc)
	default:
		return fmt.Sprintf("'--%s[%s]'", f.long, f.desc)
	}
}

func zshArray(b *strings.Builder, name string, items []string) {
	fmt.Fprintf(b, "    %s=(\n", name)
	for _, item := range items {
		fmt.Fprintf(b, "        %s\n", item)
	}
	b.WriteString("    )\n\n")
}

func generateZshCompletion(cmdName string) string {
	fn := funcName(cmdName, "")

	var commands, flags, evalFlags, shells []string
	for _, c := range allCommands() {
		commands = append(commands, fmt.Sprintf("'%s:%s'", c.name, c.description))
	}
	for _, f := range globalFlagInfos {
		flags = append(flags, zshFlagSpec(f))
	}
	for _, f := range evaluationFlagInfos {
		evalFlags = append(evalFlags, zshFlagSpec(f))
	}
	for _, sh := range supportedShells {
		shells = append(shells, fmt.Sprintf("'%s:Generate %s completion'", sh, sh))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "#compdef %s\n", cmdName)
	b.WriteString("# forkcheck zsh completion\n")
	b.WriteString("# Add to ~/.zshrc: eval \"$(forkcheck completion zsh)\"\n")
	b.WriteString(aliasNote(cmdName, "compdef _forkcheck fc", `eval "$(forkcheck completion zsh --alias=fc)"`))
	fmt.Fprintf(&b, "\n%s() {\n", fn)
	b.WriteString("    local -a commands flags eval_flags config_subcommands completion_shells\n\n")
	zshArray(&b, "commands", commands)
	zshArray(&b, "flags", flags)
	zshArray(&b, "eval_flags", evalFlags)
	zshArray(&b, "config_subcommands", []string{"'validate:Validate configuration'"})
	zshArray(&b, "completion_shells", shells)
	b.WriteString(`    local cur_pos=$((CURRENT - 1))

    if (( cur_pos == 1 )); then
        _describe -t commands 'command' commands
        _arguments -s $flags[@]
        return
    fi

    case "${words[2]}" in
        config)
            _describe -t config-subcommands 'config subcommand' config_subcommands
            ;;
        completion)
            _describe -t shells 'shell' completion_shells
            ;;
        evaluate|gotest)
            _arguments -s $eval_flags[@] $flags[@] '*:file:_files'
            ;;
        *)
            _arguments -s $flags[@]
            ;;
    esac
}

`)
	fmt.Fprintf(&b, "compdef %s %s\n", fn, cmdName)
	return b.String()
}

// fishFlagLine renders a flag as a fish complete command, optionally scoped by condition.
func fishFlagLine(cmdName, condition string, f flagInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "complete -c %s", cmdName)
	if condition != "" {
		fmt.Fprintf(&b, " -n '%s'", condition)
	}
	if f.short != "" {
		fmt.Fprintf(&b, " -s %s", f.short)
	}
	fmt.Fprintf(&b, " -l %s -d '%s'", f.long, f.desc)
	switch f.value {
	case "":
	case "file":
		b.WriteString(" -r -F")
	default:
		b.WriteString(" -x")
	}
	b.WriteString("\n")
	return b.String()
}

func generateFishCompletion(cmdName string) string {
	var b strings.Builder
	b.WriteString("# forkcheck fish completion\n")
	b.WriteString("# Add to config: forkcheck completion fish | source\n\n")
	b.WriteString(aliasNote(cmdName, "complete -c fc -w forkcheck", "forkcheck completion fish --alias=fc | source"))
	fmt.Fprintf(&b, "\n# Disable file completion by default\ncomplete -c %s -f\n\n", cmdName)

	for _, c := range allCommands() {
		fmt.Fprintf(&b, "complete -c %s -n '__fish_use_subcommand' -a '%s' -d '%s'\n", cmdName, c.name, c.description)
	}

	b.WriteString("\n# Global flags\n")
	for _, f := range globalFlagInfos {
		b.WriteString(fishFlagLine(cmdName, "", f))
	}

	const evalCond = "__fish_seen_subcommand_from evaluate gotest"
	b.WriteString("\n# evaluate and gotest\n")
	for _, f := range evaluationFlagInfos {
		b.WriteString(fishFlagLine(cmdName, evalCond, f))
	}
	fmt.Fprintf(&b, "complete -c %s -n '%s' -F\n", cmdName, evalCond)

	b.WriteString("\n# config subcommands\n")
	fmt.Fprintf(&b, "complete -c %s -n '__fish_seen_subcommand_from config' -a 'validate' -d 'Validate configuration'\n", cmdName)

	b.WriteString("\n# completion subcommands\n")
	for _, sh := range supportedShells {
		fmt.Fprintf(&b, "complete -c %s -n '__fish_seen_subcommand_from completion' -a '%s' -d 'Generate %s completion'\n", cmdName, sh, sh)
	}
	return b.String()
}
