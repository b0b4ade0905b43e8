package ai

import (
	"bytes"
	"fmt"
	"text/template"
)

// TruncationMarker is appended to diffs cut to fit the prompt budget.
const TruncationMarker = "[diff truncated]"

type (
	// SymbolLine is one modified symbol as listed in a prompt.
	SymbolLine struct {
		Name string
		Type string
	}

	// CommitPromptData holds the parameters of the commit generation templates.
	CommitPromptData struct {
		Types            []TypeLine
		Scopes           []string
		MinSubjectLength int
		MaxSubjectLength int
		Files            []string
		Diff             string
		FilesChanged     int
		Pattern          string
		Symbols          []SymbolLine
		MoreSymbols      int
		History          []string
		Feedback         []string
	}

	TypeLine struct {
		Value       string
		Description string
	}

	// VerifierPromptData holds the parameters of the verifier user template.
	VerifierPromptData struct {
		Type         string
		Scope        string
		Subject      string
		Body         string
		Diff         string
		FilesChanged int
		Pattern      string
		Symbols      []SymbolLine
		TotalSymbols int
		MoreSymbols  int
	}
)

// TruncateDiff cuts diff to at most maxChars characters and appends
// TruncationMarker. cut is the byte offset where the kept text ends, or
// len(diff) when nothing was removed.
func TruncateDiff(diff string, maxChars int) (text string, cut int, truncated bool) {
	if maxChars <= 0 {
		return diff, len(diff), false
	}
	n := 0
	for i := range diff {
		if n == maxChars {
			return diff[:i] + "\n... " + TruncationMarker, i, true
		}
		n++
	}
	return diff, len(diff), false
}

// RenderPrompt renders a prompt template with the provided data
func RenderPrompt(name, tmplStr string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("error parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("error executing template %s: %w", name, err)
	}

	return buf.String(), nil
}

const (
	commitSystemPromptEN = `You are a Git specialist who writes conventional commit messages.
You describe ONLY what the diff shows. Never mention a function, class, file or component that does not appear in the diff.

Return ONLY a JSON object, without markdown fences and without text before or after it:
{
  "type": "string (one of the allowed types)",
  "scope": "string (optional, may be empty)",
  "subject": "string (imperative mood, lower case, no trailing period)",
  "body": "string (optional; when present at least 10 characters)",
  "breaking": boolean,
  "breakingDescription": "string (only when breaking is true)"
}`

	commitSystemPromptES = `Sos un especialista en Git que escribe mensajes de commit convencionales.
Describís SOLO lo que muestra el diff. Nunca menciones una función, clase, archivo o componente que no aparezca en el diff.

Devolvé SOLO un objeto JSON, sin bloques de markdown y sin texto antes o después:
{
  "type": "string (uno de los tipos permitidos)",
  "scope": "string (opcional, puede estar vacío)",
  "subject": "string (modo imperativo, en minúsculas, sin punto final)",
  "body": "string (opcional; si está presente, al menos 10 caracteres)",
  "breaking": boolean,
  "breakingDescription": "string (solo cuando breaking es true)"
}`

	commitUserTemplateEN = `# Allowed types
{{range .Types}}- {{.Value}}: {{.Description}}
{{end}}
{{- if .Scopes}}
# Preferred scopes
{{range .Scopes}}- {{.}}
{{end}}{{end}}
# Rules
- Subject length between {{.MinSubjectLength}} and {{.MaxSubjectLength}} characters.
- Mention the most important symbols by their exact name.

# Structured analysis
- Files changed: {{.FilesChanged}}
- Detected pattern: {{.Pattern}}
{{- if .Symbols}}
- Modified symbols:
{{range .Symbols}}  * {{.Name}} ({{.Type}})
{{end}}{{if .MoreSymbols}}  ... and {{.MoreSymbols}} more
{{end}}{{end}}
{{- if .Files}}
# Files
{{range .Files}}- {{.}}
{{end}}{{end}}
{{- if .History}}
# Recent commits (style reference)
{{range .History}}- {{.}}
{{end}}{{end}}
{{- if .Feedback}}
# A previous suggestion was rejected by the verifier. Fix these problems:
{{range .Feedback}}- {{.}}
{{end}}{{end}}
# Diff
` + "```" + `
{{.Diff}}
` + "```" + `

Return ONLY the JSON object now.`

	commitUserTemplateES = `# Tipos permitidos
{{range .Types}}- {{.Value}}: {{.Description}}
{{end}}
{{- if .Scopes}}
# Scopes preferidos
{{range .Scopes}}- {{.}}
{{end}}{{end}}
# Reglas
- El subject debe tener entre {{.MinSubjectLength}} y {{.MaxSubjectLength}} caracteres.
- Mencioná los símbolos más importantes con su nombre exacto.

# Análisis estructurado
- Archivos modificados: {{.FilesChanged}}
- Patrón detectado: {{.Pattern}}
{{- if .Symbols}}
- Símbolos modificados:
{{range .Symbols}}  * {{.Name}} ({{.Type}})
{{end}}{{if .MoreSymbols}}  ... y {{.MoreSymbols}} más
{{end}}{{end}}
{{- if .Files}}
# Archivos
{{range .Files}}- {{.}}
{{end}}{{end}}
{{- if .History}}
# Commits recientes (referencia de estilo)
{{range .History}}- {{.}}
{{end}}{{end}}
{{- if .Feedback}}
# El verificador rechazó una sugerencia anterior. Corregí estos problemas:
{{range .Feedback}}- {{.}}
{{end}}{{end}}
# Diff
` + "```" + `
{{.Diff}}
` + "```" + `

Devolvé SOLO el objeto JSON.`
)

const (
	verifierSystemPromptEN = `You are a strict VERIFIER. Your task: compare the commit with the REAL diff to detect hallucinations and errors.

MANDATORY CHECKS:

1. HALLUCINATION (critical):
   - The commit mentions components/classes/functions that DO NOT EXIST in the diff
   - Example: "Add UserService" but UserService appears nowhere

2. OMISSION (major):
   - The commit OMITS MAJOR components of the diff
   - Example: the diff changes 3 important files, the commit mentions only 1

3. INACCURACY (major/minor):
   - The commit describes the NATURE of the change incorrectly
   - Example: says "refactor" but it is clearly a "feature"

Return JSON (WITHOUT ` + "```" + `json):
{
  "factualAccuracy": number (0-100),
  "hasCriticalIssues": boolean,
  "issues": [
    {
      "type": "hallucination" | "omission" | "inaccuracy",
      "severity": "critical" | "major" | "minor",
      "description": "string",
      "evidence": "string"
    }
  ],
  "verifiedSymbols": ["string"],
  "missingSymbols": ["string"],
  "hallucinatedSymbols": ["string"],
  "recommendations": ["string"],
  "reasoning": "string"
}

Rules:
- factualAccuracy = 100 if there is NO hallucination and ALL major symbols are mentioned
- hasCriticalIssues = true if there is at least 1 hallucination OR factualAccuracy < 70
- Be VERY strict about hallucinations (severity: "critical")`

	verifierSystemPromptES = `Sos un VERIFICADOR estricto. Tu tarea: comparar el commit con el diff REAL para detectar alucinaciones y errores.

VERIFICACIONES OBLIGATORIAS:

1. ALUCINACIÓN (critical):
   - El commit menciona componentes/clases/funciones QUE NO EXISTEN en el diff
   - Ejemplo: "Add UserService" pero UserService no aparece en ningún lado

2. OMISIÓN (major):
   - El commit OMITE componentes MAYORES del diff
   - Ejemplo: el diff modifica 3 archivos importantes y el commit menciona solo 1

3. INEXACTITUD (major/minor):
   - El commit describe incorrectamente la NATURALEZA del cambio
   - Ejemplo: dice "refactor" pero claramente es una "feature"

Devolvé JSON (SIN ` + "```" + `json):
{
  "factualAccuracy": number (0-100),
  "hasCriticalIssues": boolean,
  "issues": [
    {
      "type": "hallucination" | "omission" | "inaccuracy",
      "severity": "critical" | "major" | "minor",
      "description": "string",
      "evidence": "string"
    }
  ],
  "verifiedSymbols": ["string"],
  "missingSymbols": ["string"],
  "hallucinatedSymbols": ["string"],
  "recommendations": ["string"],
  "reasoning": "string"
}

Reglas:
- factualAccuracy = 100 si NO hay alucinaciones y TODOS los símbolos mayores están mencionados
- hasCriticalIssues = true si hay al menos 1 alucinación O factualAccuracy < 70
- Sé MUY estricto con las alucinaciones (severity: "critical")`

	verifierUserTemplateEN = `COMMIT TO VERIFY:
Type: {{.Type}}
{{- if .Scope}}
Scope: {{.Scope}}
{{- end}}
Subject: {{.Subject}}
{{- if .Body}}
Body: {{.Body}}
{{- end}}

REAL DIFF (source of truth):
` + "```" + `
{{.Diff}}
` + "```" + `

STRUCTURED ANALYSIS (reference):
- Files: {{.FilesChanged}}
- Pattern: {{.Pattern}}
{{- if .Symbols}}
- REAL modified symbols ({{.TotalSymbols}} total):
{{range .Symbols}}  * {{.Name}} ({{.Type}})
{{end}}{{if .MoreSymbols}}  ... and {{.MoreSymbols}} more
{{end}}{{end}}
VERIFICATION QUESTIONS:
1. HALLUCINATION: Does the commit mention components absent from the diff?
2. OMISSION: Does the commit omit major symbols of the diff?
3. ACCURACY: Do the type and description match the detected pattern?

Compare the commit with the diff rigorously. Be STRICT.`

	verifierUserTemplateES = `COMMIT A VERIFICAR:
Type: {{.Type}}
{{- if .Scope}}
Scope: {{.Scope}}
{{- end}}
Subject: {{.Subject}}
{{- if .Body}}
Body: {{.Body}}
{{- end}}

DIFF REAL (fuente de verdad):
` + "```" + `
{{.Diff}}
` + "```" + `

ANÁLISIS ESTRUCTURADO (referencia):
- Archivos: {{.FilesChanged}}
- Patrón: {{.Pattern}}
{{- if .Symbols}}
- Símbolos REALES modificados ({{.TotalSymbols}} en total):
{{range .Symbols}}  * {{.Name}} ({{.Type}})
{{end}}{{if .MoreSymbols}}  ... y {{.MoreSymbols}} más
{{end}}{{end}}
PREGUNTAS DE VERIFICACIÓN:
1. ALUCINACIÓN: ¿El commit menciona componentes ausentes del diff?
2. OMISIÓN: ¿El commit omite símbolos mayores del diff?
3. EXACTITUD: ¿El tipo y la descripción corresponden al patrón detectado?

Compará rigurosamente el commit con el diff. Sé ESTRICTO.`
)

// GetCommitSystemPrompt returns the generation instructions based on the language
func GetCommitSystemPrompt(lang string) string {
	if lang == "es" {
		return commitSystemPromptES
	}
	return commitSystemPromptEN
}

// GetCommitPromptTemplate returns the generation user template based on the language
func GetCommitPromptTemplate(lang string) string {
	if lang == "es" {
		return commitUserTemplateES
	}
	return commitUserTemplateEN
}

func GetVerifierSystemPrompt(lang string) string {
	if lang == "es" {
		return verifierSystemPromptES
	}
	return verifierSystemPromptEN
}

func GetVerifierPromptTemplate(lang string) string {
	if lang == "es" {
		return verifierUserTemplateES
	}
	return verifierUserTemplateEN
}
