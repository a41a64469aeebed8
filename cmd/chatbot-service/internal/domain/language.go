package domain

// Language 语言代码
type Language string

const (
	LangEnglish Language = "en"
	LangHindi   Language = "hi"
	LangTamil   Language = "ta"
	LangTelugu  Language = "te"
	LangBengali Language = "bn"
	LangMarathi Language = "mr"
)

// DefaultLanguage 默认语言
const DefaultLanguage = LangEnglish

// LanguagePack 单一语言的固定话术
type LanguagePack struct {
	Code       Language `json:"code"`
	Name       string   `json:"name"`
	NativeName string   `json:"native_name"`
	Flag       string   `json:"flag"`
	Greeting   string   `json:"-"`
	Goodbye    string   `json:"-"`
	Fallback   string   `json:"-"`
	Error      string   `json:"-"`
	Handoff    string   `json:"-"`
}

// languagePacks 支持的语言表，顺序即对外展示顺序
var languagePacks = []LanguagePack{
	{
		Code:       LangEnglish,
		Name:       "English",
		NativeName: "English",
		Flag:       "🇬🇧",
		Greeting:   "Hello! How can I help you today?",
		Goodbye:    "Goodbye! Feel free to ask if you have more questions.",
		Fallback:   "I'm sorry, I couldn't understand that. Could you please rephrase?",
		Error:      "Something went wrong. Please try again.",
		Handoff:    "Let me connect you with a human agent for better assistance.",
	},
	{
		Code:       LangHindi,
		Name:       "Hindi",
		NativeName: "हिंदी",
		Flag:       "🇮🇳",
		Greeting:   "नमस्ते! आज मैं आपकी कैसे मदद कर सकता हूं?",
		Goodbye:    "अलविदा! अगर आपके और सवाल हों तो पूछें।",
		Fallback:   "मुझे खेद है, मैं यह समझ नहीं पाया। कृपया दोबारा कहें।",
		Error:      "कुछ गलत हो गया। कृपया पुनः प्रयास करें।",
		Handoff:    "बेहतर सहायता के लिए मैं आपको एक मानव एजेंट से जोड़ता हूं।",
	},
	{
		Code:       LangTamil,
		Name:       "Tamil",
		NativeName: "தமிழ்",
		Flag:       "🇮🇳",
		Greeting:   "வணக்கம்! இன்று நான் உங்களுக்கு எப்படி உதவ முடியும்?",
		Goodbye:    "போய் வருகிறேன்! உங்களுக்கு மேலும் கேள்விகள் இருந்தால் கேளுங்கள்.",
		Fallback:   "மன்னிக்கவும், என்னால் புரிந்துகொள்ள முடியவில்லை. தயவுசெய்து மீண்டும் கூறுங்கள்.",
		Error:      "ஏதோ தவறு ஏற்பட்டது. மீண்டும் முயற்சிக்கவும்.",
		Handoff:    "சிறந்த உதவிக்கு நான் உங்களை ஒரு நிபுணரிடம் இணைக்கிறேன்.",
	},
	{
		Code:       LangTelugu,
		Name:       "Telugu",
		NativeName: "తెలుగు",
		Flag:       "🇮🇳",
		Greeting:   "నమస్కారం! ఈరోజు నేను మీకు ఎలా సహాయం చేయగలను?",
		Goodbye:    "వీడ్కోలు! మీకు మరిన్ని ప్రశ్నలు ఉంటే అడగండి.",
		Fallback:   "క్షమించండి, నేను అర్థం చేసుకోలేకపోయాను. దయచేసి మళ్ళీ చెప్పండి.",
		Error:      "ఏదో తప్పు జరిగింది. దయచేసి మళ్ళీ ప్రయత్నించండి.",
		Handoff:    "మెరుగైన సహాయం కోసం నేను మిమ్మల్ని ఒక నిపుణుడితో అనుసంధానం చేస్తాను.",
	},
	{
		Code:       LangBengali,
		Name:       "Bengali",
		NativeName: "বাংলা",
		Flag:       "🇮🇳",
		Greeting:   "নমস্কার! আজ আমি আপনাকে কীভাবে সাহায্য করতে পারি?",
		Goodbye:    "বিদায়! আপনার আরও প্রশ্ন থাকলে জিজ্ঞাসা করুন।",
		Fallback:   "দুঃখিত, আমি বুঝতে পারলাম না। অনুগ্রহ করে আবার বলুন।",
		Error:      "কিছু ভুল হয়েছে। অনুগ্রহ করে আবার চেষ্টা করুন।",
		Handoff:    "আরও ভালো সাহায্যের জন্য আমি আপনাকে একজন বিশেষজ্ঞের সাথে সংযুক্ত করছি।",
	},
	{
		Code:       LangMarathi,
		Name:       "Marathi",
		NativeName: "मराठी",
		Flag:       "🇮🇳",
		Greeting:   "नमस्कार! आज मी तुम्हाला कशी मदत करू शकतो?",
		Goodbye:    "निरोप! तुमच्या आणखी प्रश्न असल्यास विचारा.",
		Fallback:   "क्षमा करा, मला समजले नाही. कृपया पुन्हा सांगा.",
		Error:      "काहीतरी चूक झाली. कृपया पुन्हा प्रयत्न करा.",
		Handoff:    "अधिक चांगल्या मदतीसाठी मी तुम्हाला तज्ञाशी जोडतो.",
	},
}

// SupportedLanguages 返回支持的语言列表（副本）
func SupportedLanguages() []LanguagePack {
	out := make([]LanguagePack, len(languagePacks))
	copy(out, languagePacks)
	return out
}

// IsSupported 判断语言是否受支持
func IsSupported(lang Language) bool {
	for _, p := range languagePacks {
		if p.Code == lang {
			return true
		}
	}
	return false
}

// PackFor 返回语言对应的话术包，不支持的语言回退到英文
func PackFor(lang Language) LanguagePack {
	for _, p := range languagePacks {
		if p.Code == lang {
			return p
		}
	}
	return languagePacks[0]
}

// NormalizeLanguage 归一化语言代码，未知代码回退到默认语言
func NormalizeLanguage(code string) Language {
	// langdetect 风格的三字码映射
	aliases := map[string]Language{
		"eng": LangEnglish,
		"hin": LangHindi,
		"tam": LangTamil,
		"tel": LangTelugu,
		"ben": LangBengali,
		"mar": LangMarathi,
	}
	if lang, ok := aliases[code]; ok {
		return lang
	}
	if IsSupported(Language(code)) {
		return Language(code)
	}
	return DefaultLanguage
}
