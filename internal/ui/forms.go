package ui

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/huh"

	"github.com/thomas-vilte/commitformat/internal/i18n"
	"github.com/thomas-vilte/commitformat/internal/models"
)

// Action is what the user decided to do with a suggested commit.
type Action string

const (
	ActionAccept       Action = "accept"
	ActionAcceptAnyway Action = "accept_anyway"
	ActionEdit         Action = "edit"
	ActionRegenerate   Action = "regenerate"
	ActionCancel       Action = "cancel"
)

// ActionOptions lists the choices offered after a suggestion. A suggestion
// with critical issues is never offered as a plain accept.
func ActionOptions(critical bool, t *i18n.Translations) []huh.Option[Action] {
	option := func(a Action) huh.Option[Action] {
		return huh.NewOption(t.GetMessage("form.action_"+string(a), 0, nil), a)
	}
	if critical {
		return []huh.Option[Action]{
			option(ActionRegenerate),
			option(ActionAcceptAnyway),
			option(ActionCancel),
		}
	}
	return []huh.Option[Action]{
		option(ActionAccept),
		option(ActionEdit),
		option(ActionRegenerate),
		option(ActionCancel),
	}
}

// SelectAction asks what to do with a suggestion. Aborting the form cancels.
func SelectAction(critical bool, t *i18n.Translations) (Action, error) {
	SuspendActiveSpinner()
	defer ResumeSuspendedSpinner()

	title := t.GetMessage("form.action_title", 0, nil)
	if critical {
		title = t.GetMessage("form.action_title_critical", 0, nil)
	}

	var action Action
	err := huh.NewSelect[Action]().
		Title(title).
		Options(ActionOptions(critical, t)...).
		Value(&action).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return ActionCancel, nil
	}
	if err != nil {
		return "", err
	}
	return action, nil
}

// Confirm asks a yes/no question. Aborting the form answers no.
func Confirm(question string, t *i18n.Translations) (bool, error) {
	SuspendActiveSpinner()
	defer ResumeSuspendedSpinner()

	var ok bool
	err := huh.NewConfirm().
		Title(question).
		Affirmative(t.GetMessage("form.yes", 0, nil)).
		Negative(t.GetMessage("form.no", 0, nil)).
		Value(&ok).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

// CommitForm asks for every part of a conventional commit under rules.
func CommitForm(rules models.CommitRules, t *i18n.Translations) (*models.CandidateCommit, error) {
	commit := &models.CandidateCommit{}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(t.GetMessage("form.type", 0, nil)).
				Options(typeOptions(rules.Types)...).
				Value(&commit.Type),
			scopeField(rules, &commit.Scope, t),
			huh.NewInput().
				Title(t.GetMessage("form.subject", 0, nil)).
				CharLimit(rules.MaxSubjectLength).
				Validate(SubjectValidator(rules, t)).
				Value(&commit.Subject),
			huh.NewText().
				Title(t.GetMessage("form.body", 0, nil)).
				Lines(4).
				Validate(BodyValidator(t)).
				Value(&commit.Body),
			huh.NewConfirm().
				Title(t.GetMessage("form.breaking", 0, nil)).
				Affirmative(t.GetMessage("form.yes", 0, nil)).
				Negative(t.GetMessage("form.no", 0, nil)).
				Value(&commit.Breaking),
		),
		huh.NewGroup(
			huh.NewInput().
				Title(t.GetMessage("form.breaking_description", 0, nil)).
				Value(&commit.BreakingDescription),
		).WithHideFunc(func() bool { return !commit.Breaking }),
	)

	if err := form.Run(); err != nil {
		return nil, err
	}

	commit.Scope = strings.TrimSpace(commit.Scope)
	commit.Subject = strings.TrimSpace(commit.Subject)
	commit.Body = strings.TrimSpace(commit.Body)
	commit.BreakingDescription = strings.TrimSpace(commit.BreakingDescription)
	if !commit.Breaking {
		commit.BreakingDescription = ""
	}
	return commit, nil
}

func typeOptions(types []models.CommitType) []huh.Option[string] {
	if len(types) == 0 {
		types = models.DefaultCommitTypes()
	}
	opts := make([]huh.Option[string], 0, len(types))
	for _, ct := range types {
		label := ct.Name
		if label == "" {
			label = ct.Value
		}
		opts = append(opts, huh.NewOption(label, ct.Value))
	}
	return opts
}

// scopeField is a closed list when custom scopes are off, free text otherwise.
func scopeField(rules models.CommitRules, scope *string, t *i18n.Translations) huh.Field {
	title := t.GetMessage("form.scope", 0, nil)
	if !rules.AllowCustomScopes {
		opts := []huh.Option[string]{huh.NewOption(t.GetMessage("form.no_scope", 0, nil), "")}
		for _, s := range rules.Scopes {
			opts = append(opts, huh.NewOption(s, s))
		}
		return huh.NewSelect[string]().Title(title).Options(opts...).Value(scope)
	}
	return huh.NewInput().
		Title(title).
		Suggestions(slices.Clone(rules.Scopes)).
		Validate(ScopeValidator(rules, t)).
		Value(scope)
}

// SubjectValidator checks the subject length against rules.
func SubjectValidator(rules models.CommitRules, t *i18n.Translations) func(string) error {
	return func(s string) error {
		n := utf8.RuneCountInString(strings.TrimSpace(s))
		if n < rules.MinSubjectLength || (rules.MaxSubjectLength > 0 && n > rules.MaxSubjectLength) {
			return fmt.Errorf("%s", t.GetMessage("form.subject_length", 0, map[string]interface{}{
				"Min": rules.MinSubjectLength,
				"Max": rules.MaxSubjectLength,
			}))
		}
		return nil
	}
}

// BodyValidator accepts an empty body or one of at least MinBodyLength characters.
func BodyValidator(t *i18n.Translations) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s != "" && utf8.RuneCountInString(s) < models.MinBodyLength {
			return fmt.Errorf("%s", t.GetMessage("form.body_length", 0, map[string]interface{}{
				"Min": models.MinBodyLength,
			}))
		}
		return nil
	}
}

// ScopeValidator rejects scopes that are neither configured nor allowed as custom.
func ScopeValidator(rules models.CommitRules, t *i18n.Translations) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" || rules.AllowCustomScopes || slices.Contains(rules.Scopes, s) {
			return nil
		}
		return fmt.Errorf("%s", t.GetMessage("form.scope_not_allowed", 0, map[string]interface{}{
			"Scopes": strings.Join(rules.Scopes, ", "),
		}))
	}
}

// Prompter asks the user to decide. Commands depend on it so tests can
// answer without a terminal.
type Prompter interface {
	SelectAction(critical bool) (Action, error)
	Confirm(question string) (bool, error)
	Edit(message string) (string, error)
}

type TerminalPrompter struct {
	t *i18n.Translations
}

func NewTerminalPrompter(t *i18n.Translations) *TerminalPrompter {
	return &TerminalPrompter{t: t}
}

func (p *TerminalPrompter) SelectAction(critical bool) (Action, error) {
	return SelectAction(critical, p.t)
}

func (p *TerminalPrompter) Confirm(question string) (bool, error) {
	return Confirm(question, p.t)
}

func (p *TerminalPrompter) Edit(message string) (string, error) {
	return EditCommitMessage(message, p.t.GetMessage("ui_preview.editor_error", 0, nil))
}
