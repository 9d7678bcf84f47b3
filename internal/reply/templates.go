package reply

var templatesByIntent = map[IntentLabel][]string{
	IntentCustomizationRequest: {
		"Hi! Thanks for your interest in a custom piece. Let me check what options are available and I'll get back to you shortly with the details.",
		"Thank you for reaching out about a custom order! I'd be happy to look into what we can do and will follow up with the options soon.",
	},
	IntentShippingInquiry: {
		"Hi there! Orders are usually dispatched within a few business days, and you will receive a tracking number as soon as your order ships.",
		"Thanks for asking about shipping! Delivery times depend on the carrier and destination, and I'll confirm the details for you shortly.",
	},
}

var genericTemplates = []string{
	"Thank you for your message! I'll look into this and get back to you as soon as possible.",
	"Thanks for reaching out! I'm checking on this for you and will reply with more details shortly.",
}

// guardTemplates are used only when intent templates cannot fill the result.
var guardTemplates = []string{
	"Thank you for your patience! We appreciate your message and will follow up with you shortly.",
	"Sorry for any inconvenience! We have received your message and will respond with an update soon.",
}

// LocalTemplates returns up to two canned replies for intent, skipping any equal to avoid.
// It is deterministic and never touches the network.
func LocalTemplates(intent IntentLabel, avoid string) []string {
	source, ok := templatesByIntent[intent]
	if !ok {
		source = genericTemplates
	}

	out := make([]string, 0, 2)
	for _, t := range source {
		if t == avoid {
			continue
		}
		out = append(out, t)
		if len(out) == 2 {
			break
		}
	}
	return out
}
