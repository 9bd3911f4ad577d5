package constant

const (
	// DefaultInsightQuery is what the "ask the armorer" button sends.
	DefaultInsightQuery = "Tell me about the strategic advantages and history of this weapon."

	InsightFallbackEmpty  = "Transmission interrupted. Data unavailable."
	InsightFallbackFailed = "Unable to establish link with the Armory AI database."

	// InsightPromptTemplate args: name, type, weight, flexibility, target area, query.
	InsightPromptTemplate = `
You are an expert fencing armorer and historian.
The user is asking about: %s (%s).

Technical Specs:
- Weight: %s
- Flexibility: %s
- Target Area: %s

User Query: "%s"

Provide a concise, professional, and engaging response suitable for a high-tech equipment showcase website.
Keep it under 100 words unless asked for more detail. Focus on the mechanical and strategic advantages.
`
)

const (
	EventEquipmentSelected = "EQUIPMENT_SELECTED"
	EventInsightRequested  = "INSIGHT_REQUESTED"
	EventInsightCompleted  = "INSIGHT_COMPLETED"
)
