// Package generator – prompt construction.
package generator

import "strings"

// sectionPrompt is the stored prompt template. The structural rules it
// encodes (BEM naming, breakpoints, range validity) shape the content of the
// model's reply; they are instructions to the remote model, not constraints
// enforced by this process.
const sectionPrompt = `You are an expert Shopify theme developer. Recreate the {{SECTION_TYPE}} shown in the attached screenshot as a production-quality Shopify section.

Rules:
- Use semantic HTML with BEM class names derived from the section type (block__element--modifier).
- Include all styles in a single <style> block with responsive breakpoints at 749px and 989px.
- Expose every piece of text, every image, and every color as a setting in the schema.
- Range settings must be valid: (max - min) must be divisible by step.
- Do not use external assets, scripts, or fonts.

{{OPTION_NOTES}}Additional requirements from the user:
{{REQUIREMENTS}}

Reply with exactly this structure:
<html>
...section markup...
</html>
<style>
...styles...
</style>
{% schema %}
...JSON schema...
{% endschema %}`

// BuildPrompt substitutes the section label, option hints, and free-text
// requirements into the stored prompt template.
func BuildPrompt(opts Options, requirements string) string {
	var notes []string
	if opts.ShowRating {
		notes = append(notes, "include a star-rating element")
	}
	if opts.ShowPrice {
		notes = append(notes, "include a visible price")
	}
	if opts.IncludeText {
		notes = append(notes, "reproduce all visible text content")
	}

	optionNotes := ""
	if len(notes) > 0 {
		optionNotes = "Options: " + strings.Join(notes, "; ") + ".\n\n"
	}

	req := strings.TrimSpace(requirements)
	if req == "" {
		req = "(none)"
	}

	return strings.NewReplacer(
		"{{SECTION_TYPE}}", opts.Purpose.Label(),
		"{{OPTION_NOTES}}", optionNotes,
		"{{REQUIREMENTS}}", req,
	).Replace(sectionPrompt)
}
