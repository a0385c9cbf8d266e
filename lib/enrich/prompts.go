package enrich

import "text/template"

// Vocabulary is the closed tag set clubs get classified into.
var Vocabulary = []string{
	// Academic
	"Academic",
	"Science",
	"Math",

	// Tech
	"Software",
	"AI",
	"Robotics",
	"Hardware",

	// Business
	"Business",
	"Finance",
	"Consulting",
	"Entrepreneurship",

	// Environment & Health
	"Sustainability",
	"Wellness",
	"Mental Health",

	// Sports & Recreation
	"Sports",
	"Recreation",
	"Outdoors",

	// Arts & Media
	"Arts",
	"Music",
	"Dance",
	"Theatre",
	"Media",

	// Gaming
	"Gaming",
	"Esports",
	"Boardgames",

	// Community & Culture
	"Volunteer",
	"Advocacy",
	"Cultural",
	"LGBTQ",
	"Leadership",
}

type enrichData struct {
	Content string
}

var enrichTemplate = template.Must(template.New("enrich").Parse(`You are extracting student organization information from university website content.

1. Extract a clean description (remove any contact info from it)
2. Extract ALL contact/social media information
3. Extract meeting details and how-to-join details when present

Return a JSON object with this structure:

{
  "description": "Clean description without contact information",
  "social_media": {
    "website": ["list of website URLs"],
    "email": ["list of email addresses"],
    "facebook": ["list of facebook URLs"],
    "instagram": ["list of instagram URLs"],
    "twitter": ["list of twitter/x URLs"],
    "linkedin": ["list of linkedin URLs"],
    "youtube": ["list of youtube URLs"],
    "discord": ["list of discord URLs"]
  },
  "meeting_info": "Meeting details, or empty string",
  "membership_info": "How to join, or empty string"
}

Rules:
- Convert @usernames to full URLs for social platforms
- Only include social_media categories that have actual content
- Remove duplicates and fix obvious typos in URLs
- Return ONLY valid JSON, no commentary

Content to process:
{{.Content}}`))

type directoryData struct {
	Faculty string
	Content string
	Images  string
}

var directoryTemplate = template.Must(template.New("directory").Parse(`You are analyzing a {{.Faculty}} faculty page from the University of Waterloo to extract student club information.

Page content:
{{.Content}}

Available images (json):
{{.Images}}

Extract ALL student clubs/organizations mentioned. For each club provide its
exact name, a clean comprehensive description, any social media links
explicitly mentioned, and the url of the image that belongs to it (matched by
alt text, title, or logical association) or null.

CRITICAL: return ONLY a valid JSON array. No comments, no duplicate keys, no
trailing commas. Structure:

[
  {
    "name": "Club Name",
    "description": "Clean description of the club",
    "social_media": {
      "website": [], "email": [], "facebook": [], "instagram": [],
      "twitter": [], "linkedin": [], "discord": []
    },
    "image_url": "URL from the images list above, or null"
  }
]

Carefully separate different clubs, do not merge them, and do not miss any.
Ignore WUSA (Waterloo Undergraduate Student Association) itself.`))

type tagData struct {
	Tags string
	Club string
}

var tagTemplate = template.Must(template.New("tag").Parse(`Assign 1-3 tags to this University of Waterloo club.
Allowed tags: {{.Tags}}

Guidelines:
- Focus on the PRIMARY purpose and core activities
- Consider what members actually DO in the club
- Avoid tags that only loosely relate to secondary aspects

Club: {{.Club}}

Return JSON only: {"tags": ["Tag1", "Tag2"]}`))
