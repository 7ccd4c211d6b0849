package advice

import (
	"fmt"
	"strings"

	"github.com/oncorisk/ovassess/risk"
)

// systemPrompt frames the narrative model's persona and tone.
const systemPrompt = "You are a compassionate medical expert specializing in women's health. " +
	"Provide evidence-based advice while maintaining a supportive tone."

// buildPrompt renders the structured user prompt: risk assessment summary,
// lab values with reference ranges, and the five sections the parser expects
// back, in marker order.
func buildPrompt(sum PatientSummary, probability float64, level risk.Level) string {
	menopause := "Pre-menopausal"
	if sum.Postmenopausal {
		menopause = "Post-menopausal"
	}

	var b strings.Builder
	b.WriteString("You are a medical expert providing health recommendations for a patient ")
	b.WriteString("with ovarian cancer risk assessment. Please provide gentle but informative ")
	b.WriteString("advice based on the following patient data:\n\n")

	fmt.Fprintf(&b, "Risk Assessment Results:\n")
	fmt.Fprintf(&b, "- Risk Level: %s (Risk Score: %.1f%%)\n", strings.ToUpper(string(level)), probability*100)
	fmt.Fprintf(&b, "- Age: %d years\n", sum.Age)
	fmt.Fprintf(&b, "- Menopausal Status: %s\n\n", menopause)

	fmt.Fprintf(&b, "Lab Values:\n")
	fmt.Fprintf(&b, "- CA125: %g U/mL (Normal Range: 0-35 U/mL)\n", sum.CA125)
	fmt.Fprintf(&b, "- HE4: %g pmol/L (Normal Range: 0-140 pmol/L)\n", sum.HE4)
	fmt.Fprintf(&b, "- CA19-9: %g U/mL (Normal Range: 0-37 U/mL)\n", sum.CA199)
	fmt.Fprintf(&b, "- CEA: %g ng/mL\n", sum.CEA)
	fmt.Fprintf(&b, "- AFP: %g ng/mL\n\n", sum.AFP)

	b.WriteString(`Please provide compassionate and detailed recommendations in these categories. Format each section with bullet points:

1. Risk Factors:
- List both modifiable and non-modifiable risk factors specific to this patient
- Explain how their age and menopausal status affect risk
- Discuss relevant biomarker implications
- Include lifestyle considerations

2. Dietary Recommendations:
- Foods to include based on risk level
- Specific nutrients important for this patient
- Foods to limit or avoid
- Practical meal suggestions

3. Exercise Guidelines:
- Age and risk-appropriate activities
- Recommended frequency and intensity
- Safety precautions based on risk level
- Benefits specific to their situation

4. Important Signs to Monitor:
- Specific symptoms to watch based on risk level
- When to contact healthcare providers
- Recommended screening frequency
- Changes to track in biomarkers

5. Daily Wellness Tips:
- Three personalized daily habits
- Risk-specific stress management
- Sleep recommendations
- Support resources

Please ensure recommendations are specific to the patient's risk level, age, and biomarker values.`)

	return b.String()
}
