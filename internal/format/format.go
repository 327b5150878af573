// Package format renders eRegulations payloads as human-readable text for
// CLI output and MCP tool results. Rendering is permissive: missing fields
// fall back to placeholder text, never errors.
package format

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/eregs/internal/core/domain"
)

// ProcedureSummary renders a short plain-text summary of a procedure.
func ProcedureSummary(p domain.Payload) string {
	if len(p) == 0 {
		return "Procedure information not available."
	}

	title := textOr(p, "title", "Untitled Procedure")
	url := textOr(p, "url", "No URL available")
	additionalInfo := textOr(p, "additionalInfo", "No additional information available")

	var b strings.Builder
	fmt.Fprintf(&b, "Procedure: %s\n", title)
	fmt.Fprintf(&b, "URL: %s\n", url)
	fmt.Fprintf(&b, "Additional Information: %s\n", additionalInfo)

	steps := domain.ProcedureSteps(p)
	blocks, _ := p["blocks"].([]any)
	fmt.Fprintf(&b, "Number of blocks: %d\n", len(blocks))
	fmt.Fprintf(&b, "Total steps: %d\n", len(steps))
	return b.String()
}

// ProcedureMarkdown renders a markdown answer for a procedure, as produced
// by the query router.
func ProcedureMarkdown(procedureID int, p domain.Payload) string {
	title := textOr(p, "title", fmt.Sprintf("Procedure %d", procedureID))
	description := textOr(p, "description", "No description available")

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s\n\n", title, description)

	if info := domain.ExtractText(p, "additionalInfo"); info != "" {
		fmt.Fprintf(&b, "## Additional Information\n%s\n\n", info)
	}

	blocks, _ := p["blocks"].([]any)
	steps := domain.ProcedureSteps(p)
	fmt.Fprintf(&b, "This procedure consists of %d steps across %d blocks.\n", len(steps), len(blocks))
	b.WriteString("You can get detailed information about the steps using the get_procedure_steps tool.\n")
	return b.String()
}

// StepList renders the flattened steps of a procedure.
func StepList(steps []domain.Payload) string {
	if len(steps) == 0 {
		return "No steps available for this procedure."
	}

	var b strings.Builder
	b.WriteString("Procedure Steps:\n\n")
	for i, step := range steps {
		title := textOr(step, "title", fmt.Sprintf("Step %d", i+1))
		description := textOr(step, "description", "No description available")

		fmt.Fprintf(&b, "Step %d: %s\n", i+1, title)
		fmt.Fprintf(&b, "Description: %s\n", description)
		if online, ok := step["online"].(map[string]any); ok {
			if url, ok := online["url"].(string); ok && url != "" {
				fmt.Fprintf(&b, "Online: %s\n", url)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Step renders the details of a single procedure step.
func Step(procedureID, stepID int, p domain.Payload) string {
	if len(p) == 0 {
		return fmt.Sprintf("Step %d of procedure %d not available.", stepID, procedureID)
	}

	title := textOr(p, "title", fmt.Sprintf("Step %d", stepID))
	description := textOr(p, "description", "No description available")

	var b strings.Builder
	fmt.Fprintf(&b, "Step %d of procedure %d: %s\n", stepID, procedureID, title)
	fmt.Fprintf(&b, "Description: %s\n", description)

	if contact, ok := p["contact"].(map[string]any); ok && len(contact) > 0 {
		b.WriteString("Contact:\n")
		fmt.Fprintf(&b, "  Name: %s\n", textOr(contact, "name", "Not specified"))
		fmt.Fprintf(&b, "  Email: %s\n", textOr(contact, "email", "Not specified"))
		fmt.Fprintf(&b, "  Phone: %s\n", textOr(contact, "phone", "Not specified"))
	}
	if online, ok := p["online"].(map[string]any); ok {
		if url, ok := online["url"].(string); ok && url != "" {
			fmt.Fprintf(&b, "Online: %s\n", url)
		}
	}
	return b.String()
}

// ABCAnalysis renders an activity-based costing analysis.
func ABCAnalysis(p domain.Payload) string {
	if len(p) == 0 {
		return "No ABC analysis available for this procedure."
	}

	var b strings.Builder
	b.WriteString("Activity-Based Costing Analysis:\n\n")
	if summary := domain.ExtractText(p, "summary"); summary != "" {
		fmt.Fprintf(&b, "Summary: %s\n\n", summary)
	}

	details, _ := p["details"].([]any)
	for i, raw := range details {
		item, _ := raw.(map[string]any)
		name := textOr(item, "name", fmt.Sprintf("Item %d", i+1))
		cost := valueOr(item, "cost", "Cost not specified")
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, name, cost)
	}
	return b.String()
}

// Countries renders the deployment's country list.
func Countries(countries []domain.Payload) string {
	if len(countries) == 0 {
		return "No countries available."
	}

	var b strings.Builder
	b.WriteString("Available Countries:\n\n")
	for _, country := range countries {
		name := textOr(country, "name", "Name not specified")
		id := valueOr(country, "id", "?")
		if code := domain.ExtractText(country, "code"); code != "" {
			fmt.Fprintf(&b, "- %s (id %s, code %s)\n", name, id, code)
			continue
		}
		fmt.Fprintf(&b, "- %s (id %s)\n", name, id)
	}
	return b.String()
}

// Requirements renders a procedure's requirement list.
func Requirements(reqs domain.Payload) string {
	if len(reqs) == 0 {
		return "No requirements information available for this procedure."
	}

	items, _ := reqs["items"].([]any)
	if len(items) == 0 {
		return "No specific requirements listed for this procedure."
	}

	var b strings.Builder
	b.WriteString("Procedure Requirements:\n\n")
	for i, raw := range items {
		item, _ := raw.(map[string]any)
		name := textOr(item, "name", fmt.Sprintf("Requirement %d", i+1))
		description := textOr(item, "description", "No description available")

		fmt.Fprintf(&b, "%d. %s\n", i+1, name)
		fmt.Fprintf(&b, "   Description: %s\n", description)
		if cost := domain.ExtractText(item, "cost"); cost != "" {
			fmt.Fprintf(&b, "   Cost: %s\n", cost)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Costs renders a procedure's cost totals with an optional breakdown.
func Costs(costs domain.Payload) string {
	if len(costs) == 0 {
		return "No cost information available for this procedure."
	}

	currency := domain.ExtractText(costs, "currency")
	total := valueOr(costs, "totalCost", "Not specified")

	var b strings.Builder
	b.WriteString("Procedure Costs:\n\n")
	fmt.Fprintf(&b, "Total Cost: %s %s\n\n", total, currency)

	items, _ := costs["items"].([]any)
	if len(items) > 0 {
		b.WriteString("Cost Breakdown:\n")
		for i, raw := range items {
			item, _ := raw.(map[string]any)
			name := textOr(item, "name", fmt.Sprintf("Item %d", i+1))
			amount := valueOr(item, "amount", "Amount not specified")
			fmt.Fprintf(&b, "%d. %s: %s %s\n", i+1, name, amount, currency)
		}
	}
	return b.String()
}

// Institution renders an institution summary.
func Institution(p domain.Payload) string {
	if len(p) == 0 {
		return "Institution information not available."
	}

	name := textOr(p, "name", "Unnamed Institution")
	description := textOr(p, "description", "No description available")

	var b strings.Builder
	fmt.Fprintf(&b, "Institution: %s\n", name)
	fmt.Fprintf(&b, "Description: %s\n", description)
	return b.String()
}

// SearchResults renders search hits as a numbered list.
func SearchResults(query string, results []domain.SearchResult) string {
	if len(results) == 0 {
		return fmt.Sprintf("No results found for %q.", query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Results for %q:\n\n", query)
	for i, r := range results {
		title := r.Title
		if title == "" {
			title = fmt.Sprintf("Entry %d", r.ID)
		}
		fmt.Fprintf(&b, "%d. %s (id %d)\n", i+1, title, r.ID)
	}
	return b.String()
}

// textOr reads a string field with a fallback for absent or empty values.
func textOr(p domain.Payload, key, fallback string) string {
	if s := domain.ExtractText(p, key); s != "" {
		return s
	}
	return fallback
}

// valueOr renders any scalar field, falling back when absent.
func valueOr(p domain.Payload, key, fallback string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return fallback
	}
	switch n := v.(type) {
	case float64:
		// Whole numbers render without the trailing .0 JSON gives them.
		if n == float64(int64(n)) {
			return fmt.Sprintf("%d", int64(n))
		}
		return fmt.Sprintf("%g", n)
	case string:
		if n == "" {
			return fallback
		}
		return n
	default:
		return fmt.Sprintf("%v", v)
	}
}
