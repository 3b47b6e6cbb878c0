package patterns

// defaultRules is the bundled rule set. Confidence values are tuned to how
// specific each format is: tight formats (email, SSN, IPv4, MAC) score 0.9+,
// loose or ambiguous formats (bare digit runs, street addresses) score 0.8
// or below so they only fire when the caller lowers the threshold.
var defaultRules = []struct {
	name        string
	source      string
	confidence  float64
	category    string
	description string
}{
	{
		"email",
		`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`,
		0.95, "contact", "Email addresses",
	},
	{
		"phone_us",
		`(\+?1[-.\s]?)?\(?([0-9]{3})\)?[-.\s]?([0-9]{3})[-.\s]?([0-9]{4})`,
		0.9, "contact", "US phone numbers",
	},
	{
		"phone_international",
		`\+?[1-9]\d{1,14}`,
		0.8, "contact", "International phone numbers",
	},
	{
		"ssn",
		`\b\d{3}-?\d{2}-?\d{4}\b`,
		0.95, "identification", "US Social Security Numbers",
	},
	{
		"credit_card",
		`\b(?:\d{4}[-\s]?){3}\d{4}\b`,
		0.9, "financial", "Credit card numbers",
	},
	{
		"name_title",
		`\b(Mr|Mrs|Ms|Dr|Prof|Sir|Madam)\.?\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`,
		0.8, "personal", "Names with titles",
	},
	{
		"ip_address",
		`\b(?:(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\b`,
		0.95, "technical", "IPv4 addresses",
	},
	{
		"mac_address",
		`\b([0-9A-Fa-f]{2}[:-]){5}([0-9A-Fa-f]{2})\b`,
		0.95, "technical", "MAC addresses",
	},
	{
		"url",
		`https?://(?:[-\w.])+(?::[0-9]+)?(?:/(?:[\w/_.])*(?:\?(?:[\w&=%.])*)?(?:#(?:[\w.])*)?)?`,
		0.9, "technical", "URLs",
	},
	{
		"street_address",
		`\d+\s+[A-Za-z0-9\s,.-]+(?:Street|St|Avenue|Ave|Road|Rd|Drive|Dr|Lane|Ln|Boulevard|Blvd|Way|Place|Pl)\b`,
		0.7, "location", "Street addresses",
	},
	{
		"zip_code",
		`\b\d{5}(?:-\d{4})?\b`,
		0.8, "location", "US ZIP codes",
	},
	{
		"date_birth",
		`\b(?:0[1-9]|1[0-2])[-/](?:0[1-9]|[12][0-9]|3[01])[-/](?:19|20)\d{2}\b`,
		0.8, "personal", "Dates (potential birth dates)",
	},
}
