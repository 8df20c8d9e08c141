package domain

// Chat texts shared by every conversational surface.
const (
	GreetingMessage    = "📈 M3 Binary Signal Bot Connected to TradingView!\nSend any of the 20 currency pairs (e.g., eurusd, usdjpy) to get a real-time signal."
	InvalidPairMessage = "❌ Invalid pair. Please send one of the 20 valid pairs only."
	AnalyzingMessage   = "⏳ Analyzing market, please wait..."
)
