package mapping

// Field describes one canonical field offered to the mapping wizard.
type Field struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Group string `json:"group"`
}

var catalog = []Field{
	{"first_name", "First Name", "Contact"},
	{"last_name", "Last Name", "Contact"},
	{"title", "Title", "Contact"},
	{"seniority", "Seniority", "Contact"},
	{"stage", "Stage", "Contact"},
	{"lists", "Lists", "Contact"},
	{"last_contacted", "Last Contacted", "Contact"},
	{"person_linkedin_url", "Person Linkedin Url", "Contact"},
	{"contact_owner", "Contact Owner (User ID)", "Contact"},
	{"contact_address", "Personal Address", "Contact"},
	{"contact_city", "Personal City", "Contact"},
	{"contact_state", "Personal State", "Contact"},
	{"contact_country", "Personal Country", "Contact"},
	{"contact_postal_code", "Personal Postal Code", "Contact"},

	{"company_name", "Company Name", "Company"},
	{"company_website", "Company Website", "Company"},
	{"company_linkedin_url", "Company Linkedin Url", "Company"},
	{"company_facebook_url", "Company Facebook Url", "Company"},
	{"company_twitter_url", "Company Twitter Url", "Company"},
	{"company_industry", "Company Industry", "Company"},
	{"company_num_employees", "# Employees", "Company"},
	{"company_annual_revenue", "Annual Revenue", "Company"},
	{"company_total_funding", "Total Funding", "Company"},
	{"company_latest_funding", "Latest Funding", "Company"},
	{"company_latest_funding_amount", "Latest Funding Amount", "Company"},
	{"company_last_raised_at", "Last Raised At", "Company"},
	{"company_address", "Company Address", "Company"},
	{"company_city", "Company City", "Company"},
	{"company_state", "Company State", "Company"},
	{"company_country", "Company Country", "Company"},
	{"company_phone", "Company Phone", "Company"},
	{"company_keywords", "Company Keywords", "Company"},

	{"email", "Primary Email", "Email"},
	{"email_status", "Email Status", "Email"},
	{"email_source", "Primary Email Source", "Email"},
	{"email_confidence", "Email Confidence", "Email"},
	{"email_catch_all_status", "Primary Email Catch-all Status", "Email"},
	{"email_last_verified_at", "Primary Email Last Verified At", "Email"},
	{"secondary_email", "Secondary Email", "Email"},
	{"secondary_email_source", "Secondary Email Source", "Email"},
	{"tertiary_email", "Tertiary Email", "Email"},
	{"tertiary_email_source", "Tertiary Email Source", "Email"},
	{"personal_email", "Personal Email", "Email"},

	{"work_phone", "Work Direct Phone", "Phone"},
	{"home_phone", "Home Phone", "Phone"},
	{"mobile_phone", "Mobile Phone", "Phone"},
	{"corporate_phone", "Corporate Phone", "Phone"},
	{"other_phone", "Other Phone", "Phone"},

	{"department", "Department", "Department"},

	{"primary_intent_topic", "Primary Intent Topic", "Intent"},
	{"primary_intent_score", "Primary Intent Score", "Intent"},
	{"secondary_intent_topic", "Secondary Intent Topic", "Intent"},
	{"secondary_intent_score", "Secondary Intent Score", "Intent"},
}

// Catalog returns the canonical fields a mapping may target.
func Catalog() []Field {
	out := make([]Field, len(catalog))
	copy(out, catalog)
	return out
}
