// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

const (
	ManifestNotFoundId Id = iota + 1
	ManifestParseErrorId
	CommandConflictId
	InvalidPhraseId
	ChoiceNotInteractiveId
	ScriptExecutionFailedId
	ConfigLoadFailedId
	NoHandlerId
)

type (
	// Id identifies a catalog entry.
	Id int

	// MarkdownMsg is the Markdown body of an issue.
	MarkdownMsg string

	// HttpLink is a documentation link.
	HttpLink string

	// Issue is a guide shown to the user when a known problem occurs.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
	}
)

func (i *Issue) Id() Id { return i.id }

func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

func (i *Issue) DocLinks() []HttpLink { return slices.Clone(i.docLinks) }

// Render renders the issue with the glamour style at stylePath (a standard
// style name such as "dark", "light" or "notty", or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	manifestNotFoundIssue = &Issue{
		id: ManifestNotFoundId,
		mdMsg: `
# No agent manifests found

deliver looked for agent manifests but found none, so only the built-in
commands are available.

## Search locations
1. ~/.deliver/agents/
2. Every directory listed in ` + "`search_paths`" + ` in your config file

## Things you can try
- Write a manifest such as ` + "`~/.deliver/agents/build.toml`" + `:
~~~toml
agent = "build"

[[commands]]
phrase = "build <target>"
description = "Build a target"
script = 'make "$1"'
~~~`,
	}

	manifestParseErrorIssue = &Issue{
		id: ManifestParseErrorId,
		mdMsg: `
# Failed to load an agent manifest

A manifest contains a syntax error or an invalid declaration. The other
manifests are still loaded.

## Common issues
- A phrase with a positional argument before a word (` + "`<env> deploy`" + `)
- An alias with more than one word
- ` + "`prompt-for-choice`" + ` on a command whose agent has no name
- An intent that refers to a command the manifest does not declare

## Things you can try
~~~
$ deliver show agents
$ deliver validate
~~~`,
	}

	commandConflictIssue = &Issue{
		id: CommandConflictId,
		mdMsg: `
# Conflicting commands

Two or more agents declare the same command and none of them agreed to give
way, so deliver refuses to start rather than guess.

## Things you can try
- Let one side lose politely:
~~~toml
conflict = "drop-with-warning"
~~~
- Let the user pick at run time:
~~~toml
conflict = "prompt-for-choice"
choice_label = "staging"
~~~
- Rename one of the commands or give it a distinct alias`,
	}

	invalidPhraseIssue = &Issue{
		id: InvalidPhraseId,
		mdMsg: `
# Invalid command phrase

A phrase is one or more words followed by positional markers:
` + "`<required>`, `[optional]`, `<many..>`" + `.

## Examples
- ` + "`show skills`" + `
- ` + "`clone <repo> [dir]`" + `
- ` + "`deploy <env> [targets..]`",
	}

	choiceNotInteractiveIssue = &Issue{
		id: ChoiceNotInteractiveId,
		mdMsg: `
# A choice is needed but nobody can answer

This command has several implementations and deliver must ask which one to
run, but standard input is not a terminal.

## Things you can try
- Run the command from an interactive terminal
- Set ` + "`ui.accessible: true`" + ` to answer with plain text prompts`,
	}

	scriptExecutionFailedIssue = &Issue{
		id: ScriptExecutionFailedId,
		mdMsg: `
# Script execution failed

The agent script returned a non-zero exit status or could not be run.

## Things you can try
- Run with ` + "`--verbose`" + ` to see the full error chain
- Check the script in the agent manifest (` + "`deliver show agents`" + `)`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration

## Things you can try
- Print the effective configuration:
~~~
$ deliver config show
~~~
- Write a fresh default file:
~~~
$ deliver config init
~~~`,
	}

	noHandlerIssue = &Issue{
		id: NoHandlerId,
		mdMsg: `
# I don't know how to do this

The command exists but nothing is attached to it. Its agent declared it
without a script and without subcommands.`,
	}

	issues = map[Id]*Issue{
		manifestNotFoundIssue.Id():      manifestNotFoundIssue,
		manifestParseErrorIssue.Id():    manifestParseErrorIssue,
		commandConflictIssue.Id():       commandConflictIssue,
		invalidPhraseIssue.Id():         invalidPhraseIssue,
		choiceNotInteractiveIssue.Id():  choiceNotInteractiveIssue,
		scriptExecutionFailedIssue.Id(): scriptExecutionFailedIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		noHandlerIssue.Id():             noHandlerIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int { return int(a.id - b.id) })
}

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
