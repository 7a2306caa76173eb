package main

type Job struct {
	Title       string
	Company     string
	Period      string
	Description string
}

type Degree struct {
	Degree      string
	School      string
	Period      string
	Description string
}

type ContactMethod struct {
	Label  string
	Href   string
	Detail string
	Color  string
}

const (
	OwnerName   = "Spencer Francisco"
	OwnerTitle  = "Software Engineer"
	GithubUser  = "spenceriam"
	GithubURL   = "https://github.com/spenceriam"
	OwnerEmail  = "spencerfrancisco@gmail.com"
	LinkedInURL = "https://www.linkedin.com/in/spencerfrancisco/"
	TwitterURL  = "https://x.com/spencer_i_am"
)

var (
	AboutMe = `I build modern web applications with a focus on clean interfaces and
	reliable backends. My background spans networking, IT management and
	software development, and I enjoy turning that mix into products that are
	both useful and a little bit delightful.`

	WorkHistory = []Job{
		{
			Title:       "Senior Frontend Developer",
			Company:     "Tech Company",
			Period:      "2022 - Present",
			Description: "Led development of modern web applications using React and TypeScript. Collaborated with design teams to create intuitive user experiences.",
		},
		{
			Title:       "Full Stack Developer",
			Company:     "Digital Agency",
			Period:      "2020 - 2022",
			Description: "Built responsive web applications and RESTful APIs. Worked closely with clients to deliver custom solutions.",
		},
		{
			Title:       "Frontend Developer",
			Company:     "Startup",
			Period:      "2019 - 2020",
			Description: "Developed user interfaces for web applications. Focused on performance optimization and accessibility.",
		},
	}

	Education = []Degree{
		{
			Degree:      "Bachelor of Science - Information Technology",
			School:      "University of Phoenix",
			Period:      "2018 - 2020",
			Description: "Advanced software development focus with modern programming practices and system design principles.",
		},
		{
			Degree:      "Bachelor's Degree - Technical Management",
			School:      "DeVry University, College of Business & Management",
			Period:      "2015 - 2016",
			Description: "Information Technology specialization with Global Supply Chain coursework, bridging technical and business domains.",
		},
		{
			Degree:      "Associate's Degree - Computer Science, Computer Network Systems",
			School:      "ITT Technical Institute",
			Period:      "2008 - 2010",
			Description: "Foundation in computer science principles and network systems that launched my technology career.",
		},
	}

	ContactMethods = []ContactMethod{
		{Label: "Email", Href: "mailto:" + OwnerEmail, Detail: OwnerEmail, Color: "from-purple-400 to-pink-400"},
		{Label: "LinkedIn", Href: LinkedInURL, Detail: "Connect professionally", Color: "from-blue-400 to-purple-400"},
		{Label: "Twitter/X", Href: TwitterURL, Detail: "@spencer_i_am", Color: "from-purple-400 to-indigo-400"},
	}
)
