package advice

import (
	"fmt"

	"github.com/oncorisk/ovassess/risk"
)

// fallbackSections deterministically synthesizes a complete advice bundle
// from the rule tables below. It uses only data already in hand and cannot
// fail; it is the backstop for every remote or parse failure.
func fallbackSections(level risk.Level, sum PatientSummary) Sections {
	return Sections{
		RiskFactors:  renderList(riskFactorItems(level, sum.Age, sum.Postmenopausal)),
		Diet:         renderList(dietItems(level, sum.Age, sum.Postmenopausal)),
		Exercise:     renderList(exerciseItems(level, sum.Age)),
		WarningSigns: renderList(warningSignItems(level, sum.Age, sum.Postmenopausal)),
		WellnessTips: fallbackWellnessTips(level, sum.Age),
	}
}

func riskFactorItems(level risk.Level, age int, postmenopausal bool) []string {
	var items []string

	switch {
	case age > 60:
		items = append(items,
			"Age is a significant risk factor (risk increases with age)",
			"Post-60 age group requires more frequent monitoring")
	case age > 50:
		items = append(items,
			"Age is approaching higher risk category (increased vigilance recommended)",
			"Consider more frequent screenings")
	}

	if postmenopausal {
		items = append(items,
			"Post-menopausal status may increase risk",
			"Hormonal changes can impact risk factors")
	}

	switch level {
	case risk.LevelHigh:
		items = append(items,
			"Consider genetic counseling and BRCA1/BRCA2 testing",
			"Family history may significantly influence risk level",
			"Regular screening and monitoring is essential",
			"Lifestyle modifications may help manage risk")
	case risk.LevelMedium:
		items = append(items,
			"Regular monitoring of risk factors recommended",
			"Consider lifestyle modifications for risk reduction",
			"Discuss personalized screening schedule with healthcare provider",
			"Track any changes in symptoms or health status")
	default:
		items = append(items,
			"Maintain awareness of family health history",
			"Continue regular check-ups and screenings",
			"Monitor any changes in health status",
			"Practice preventive health measures")
	}

	return items
}

func dietItems(level risk.Level, age int, postmenopausal bool) []string {
	items := []string{
		"Include a variety of colorful fruits and vegetables daily",
		"Choose whole grains over refined grains",
		"Stay well-hydrated with water (aim for 8 glasses daily)",
	}

	switch level {
	case risk.LevelHigh:
		items = append(items,
			"Prioritize cruciferous vegetables (broccoli, cauliflower, cabbage) - aim for 2-3 servings daily",
			"Include foods rich in antioxidants: berries, leafy greens, green tea, turmeric",
			"Increase fiber intake through legumes and whole grains (25-30g daily)",
			"Limit red meat to once per week or less",
			"Consider limiting dairy products and choosing plant-based alternatives")
	case risk.LevelMedium:
		items = append(items,
			"Include cruciferous vegetables 3-4 times per week",
			"Add fatty fish rich in omega-3 twice per week",
			"Choose lean proteins over processed meats",
			"Limit added sugars and processed foods")
	default:
		items = append(items,
			"Include healthy fats from nuts, seeds, and olive oil",
			"Maintain a balanced diet with protein at each meal",
			"Choose fresh, whole foods when possible")
	}

	if age > 50 || postmenopausal {
		items = append(items,
			"Ensure adequate calcium intake (1200mg daily)",
			"Include vitamin D rich foods or consider supplements",
			"Focus on foods rich in B12 and iron")
	}

	return items
}

func exerciseItems(level risk.Level, age int) []string {
	baseActivity := "150 minutes of activity"
	intensity := "moderate"
	if age > 60 {
		baseActivity = "30 minutes of gentle activity"
		intensity = "low to moderate"
	}

	items := []string{
		fmt.Sprintf("Aim for at least %s per week at %s intensity", baseActivity, intensity),
	}

	switch {
	case level == risk.LevelHigh:
		items = append(items,
			"Start with gentle walking and gradually increase intensity",
			"Include balance exercises to maintain stability",
			"Consider working with a certified fitness trainer",
			"Focus on low-impact activities like swimming or stationary cycling")
	case age > 60:
		items = append(items,
			"Try gentle yoga or tai chi for balance and flexibility",
			"Include daily walking, starting with 10-15 minutes",
			"Practice simple strength exercises using body weight",
			"Consider water aerobics for joint-friendly activity")
	default:
		items = append(items,
			"Mix cardio activities like brisk walking, swimming, or cycling",
			"Include strength training 2-3 times per week",
			"Add flexibility exercises or yoga for better mobility",
			"Try group fitness classes for motivation and support")
	}

	items = append(items,
		"Start slowly and gradually increase duration and intensity",
		"Listen to your body and rest when needed",
		"Stay hydrated before, during, and after exercise",
		fmt.Sprintf("Consult your healthcare provider before starting any new %s exercise routine", intensity))

	return items
}

func warningSignItems(level risk.Level, age int, postmenopausal bool) []string {
	items := []string{
		"Persistent bloating or abdominal discomfort",
		"Changes in appetite or feeling full quickly",
		"Unexplained weight changes",
		"Unusual fatigue",
	}

	switch level {
	case risk.LevelHigh:
		items = append(items,
			"Schedule monthly self-examinations",
			"Monitor any pelvic or lower back pain",
			"Track changes in urinary habits",
			"Note any irregular bleeding",
			fmt.Sprintf("Get check-ups every %d months", checkupMonths(age)))
	case risk.LevelMedium:
		items = append(items,
			"Perform self-examinations every 1-2 months",
			"Monitor energy levels",
			"Track any persistent digestive changes",
			"Schedule regular check-ups every 6-12 months")
	default:
		items = append(items,
			"Maintain regular self-awareness",
			"Schedule annual check-ups",
			"Keep a health diary if you notice changes")
	}

	if age > 50 || postmenopausal {
		items = append(items,
			"Monitor bone health and any unusual joint pain",
			"Track changes in sleep patterns",
			"Note any cardiovascular symptoms")
	}

	return items
}

// checkupMonths is the monitoring cadence for high-risk patients: tighter
// past age 50.
func checkupMonths(age int) int {
	if age > 50 {
		return 3
	}
	return 6
}

func fallbackWellnessTips(level risk.Level, age int) []string {
	switch level {
	case risk.LevelHigh:
		return []string{
			fmt.Sprintf("Schedule regular check-ups every %d months and maintain a symptom diary", checkupMonths(age)),
			"Practice daily stress reduction through meditation, counseling, or relaxation techniques",
			"Build a strong support network and consider joining a support group",
		}
	case risk.LevelMedium:
		return []string{
			"Practice regular relaxation techniques and stress management",
			"Maintain 7-8 hours of quality sleep each night",
			"Stay connected with your healthcare team and support network",
		}
	default:
		return []string{
			"Maintain a consistent sleep and exercise routine",
			"Practice mindfulness or meditation for stress management",
			"Stay socially active and maintain regular health check-ups",
		}
	}
}
