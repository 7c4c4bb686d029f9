// Package llm produces assistant replies. A Generator never fails: every
// internal problem degrades to a user-safe sentence that is stored and
// streamed like any other reply.
package llm

import "context"

// Generator turns the latest user message into an assistant reply.
type Generator interface {
	GenerateReply(ctx context.Context, userText string) string
}

// Persona bundles what differs between the two chat surfaces: the system
// prompt sent to the completions API and the canned replies used without one.
type Persona struct {
	Name         string
	SystemPrompt string
	Rules        []KeywordRule
	Pool         []string
}

// KeywordRule maps any of its lowercase keywords to a canned reply.
type KeywordRule struct {
	Keywords []string
	Reply    string
}

// MedicalPersona backs the signed-in MediAI chat.
var MedicalPersona = Persona{
	Name: "MediAI",
	SystemPrompt: `You are MediAI, an assistant for medical students and clinicians.
Explain medical concepts clearly and accurately, cite established guidance where possible,
and remind the user that your answers are educational and do not replace evaluation by a qualified healthcare professional.`,
	Rules: []KeywordRule{
		{
			Keywords: []string{"symptom", "diagnosis"},
			Reply:    "I can help you understand symptoms and diagnostic approaches. However, please remember that actual diagnosis requires proper medical evaluation by a qualified healthcare provider.",
		},
		{
			Keywords: []string{"drug", "medication"},
			Reply:    "I can provide general information about medications, but always verify drug information with official sources and consult healthcare professionals for specific medical advice.",
		},
		{
			Keywords: []string{"treatment", "therapy"},
			Reply:    "Treatment approaches vary based on individual circumstances. I can discuss general treatment principles, but specific medical decisions should be made by qualified healthcare providers.",
		},
	},
	Pool: []string{
		"I understand you're asking about medical topics. Based on my knowledge, I can provide general information, but please consult with a healthcare professional for personalized medical advice.",
		"That's an interesting medical question. I can help you understand the general concepts, but remember that I'm an AI assistant and not a substitute for professional medical consultation.",
		"I'd be happy to discuss medical topics with you. Let me provide some general information that might be helpful for your learning and understanding.",
		"Thank you for your medical inquiry. I'll do my best to provide accurate and helpful information based on established medical knowledge.",
		"I appreciate your question about healthcare. Let me share some insights that could be useful for your medical education and clinical understanding.",
	},
}

// NutritionPersona backs the public DietechAI chat.
var NutritionPersona = Persona{
	Name: "DietechAI",
	SystemPrompt: `You are DietechAI, a clinical nutrition and personalized medicine assistant.
Provide concise, evidence-based guidance for:
- Medical nutrition therapy (eg, T2DM, CKD, CVD, obesity, oncology)
- Energy/protein needs, macro/micronutrients, and meal planning
- Diet–drug and nutrient interactions and monitoring
Always include safety notes and contraindications when relevant. Keep responses factual and succinct.`,
	Pool: []string{
		"I'm an AI assistant here to help with your nutrition and health questions. For personalized advice, consider creating an account to chat with our certified nutritionists.",
		"That's an interesting question! While I can provide general information, for personalized nutrition advice, I recommend signing up for a free account.",
		"Thanks for your question! I can help with general nutrition information. For more detailed, personalized advice, you might want to create an account.",
		"I'd be happy to help with that! Keep in mind that I can only provide general information. For personalized nutrition advice, please consider signing up for an account.",
		"Great question! I can provide some general guidance on this topic. Would you like me to share some resources or would you prefer to sign up for more personalized advice?",
	},
}
