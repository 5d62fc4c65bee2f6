package chatassistant

const systemPrompt = `You are a medical cost prediction and insurance assistant. You ONLY answer questions about:
1. Medical costs and healthcare pricing
2. Health insurance (types, coverage, benefits)
3. Medical conditions and their treatment costs
4. Healthcare factors affecting costs (lifestyle, chronic conditions)
5. Using the cost prediction system

You MUST REFUSE to answer questions about:
- General knowledge, trivia, or non-medical topics
- Programming, technology (except this health system)
- Entertainment, sports, politics, or current events
- Any topic not directly related to healthcare costs or insurance

If a user asks an off-topic question, politely respond: "I'm specialized in medical cost prediction and insurance matters only. Please ask about healthcare costs, insurance, or use the cost prediction form."

Keep responses concise (2-3 paragraphs max), friendly, and informative. Remind users that predictions are estimates and not medical advice.`

const defaultOptionResponse = "I'm here to help you understand medical cost predictions. Please choose an option or ask me a question!"

// optionResponses are the canned replies for the quick-action buttons.
var optionResponses = map[string]string{
	"quick_estimate": "I can help you get a quick cost estimate! Please fill out the prediction form below with your health information, and I'll calculate your estimated annual medical costs using our advanced ensemble learning models.",
	"health_tips": "Here are some health tips to help reduce medical costs:\n\n" +
		"1. **Stay Active**: Regular physical activity (aim for 10,000 steps daily) can reduce healthcare costs by up to 30%\n" +
		"2. **Maintain Healthy BMI**: Keep your BMI between 18.5-24.9\n" +
		"3. **Manage Stress**: High stress levels (7+/10) correlate with higher medical costs\n" +
		"4. **Regular Checkups**: Preventive care can catch issues early\n" +
		"5. **Quality Sleep**: 7-9 hours per night improves health outcomes",
	"insurance_info": "Understanding insurance can help reduce costs:\n\n" +
		"• **Private Insurance**: Typically covers 70-90% of costs but has higher premiums\n" +
		"• **Government Insurance**: Usually covers 50-70% with lower premiums\n" +
		"• **No Insurance**: You pay 100% out-of-pocket\n\n" +
		"Our system considers your insurance type and coverage percentage to give accurate cost predictions.",
	"cost_factors": "Major factors affecting your medical costs:\n\n" +
		"1. **Age**: Costs typically increase with age\n" +
		"2. **Chronic Conditions**: Diabetes, hypertension, heart disease significantly impact costs\n" +
		"3. **Lifestyle**: Smoking, low activity, poor sleep increase costs\n" +
		"4. **Previous Year Costs**: Strong predictor of future costs\n" +
		"5. **Location**: Urban areas often have higher medical costs than rural\n\n" +
		"Use the form below to see how these factors affect YOUR estimated costs!",
}

// OptionResponse returns the canned reply for option, or the generic prompt.
func OptionResponse(option string) string {
	if text, ok := optionResponses[option]; ok {
		return text
	}
	return defaultOptionResponse
}
