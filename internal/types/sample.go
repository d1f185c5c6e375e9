package types

import "strings"

// ParseLines splits line-delimited form input into entries. Empty lines are
// kept; they are filtered when rendering, not when editing.
func ParseLines(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}

// ParseCommaList splits comma-delimited form input into trimmed entries.
func ParseCommaList(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// SampleResume returns the placeholder document shown on first run and after a reset.
func SampleResume() Resume {
	r := Resume{
		Basics: Basics{
			Name:     "John Doe",
			Email:    "john.doe@example.com",
			Phone:    "+1 (555) 123-4567",
			Location: "New York, NY",
			URL:      "https://linkedin.com/in/johndoe",
			Summary: "Experienced software engineer with a passion for building scalable web applications. " +
				"Proven track record of delivering high-quality code and collaborating effectively in cross-functional teams. " +
				"Skilled in modern JavaScript frameworks and cloud technologies.",
		},
		Work: []WorkExperience{
			{
				ID:        "1",
				Company:   "Tech Solutions Inc.",
				Position:  "Senior Software Engineer",
				Location:  "New York, NY",
				StartDate: "Jan 2020",
				EndDate:   "Present",
				Highlights: []string{
					"Led the development of a high-traffic e-commerce platform using Next.js and Node.js.",
					"Optimized application performance, reducing load times by 40%.",
					"Mentored junior developers and conducted code reviews to maintain code quality.",
				},
			},
			{
				ID:        "2",
				Company:   "Creative Agency",
				Position:  "Web Developer",
				Location:  "Brooklyn, NY",
				StartDate: "Jun 2018",
				EndDate:   "Dec 2019",
				Highlights: []string{
					"Collaborated with designers to implement pixel-perfect user interfaces.",
					"Developed responsive websites for various clients using HTML, CSS, and JavaScript.",
					"Managed content updates and maintenance for existing client sites.",
				},
			},
		},
		Education: []Education{
			{
				ID:          "1",
				Institution: "State University",
				Degree:      "Bachelor of Science (B.S.)",
				Field:       "Computer Science",
				Location:    "Anytown, USA",
				StartDate:   "2014",
				EndDate:     "2018",
				GPA:         "3.8 / 4.0",
			},
		},
		Skills: []Skill{
			{ID: "1", Category: "Languages", Skills: []string{"JavaScript", "TypeScript", "Python", "SQL"}},
			{ID: "2", Category: "Frontend", Skills: []string{"React", "Next.js", "Tailwind CSS", "HTML5", "CSS3"}},
			{ID: "3", Category: "Backend", Skills: []string{"Node.js", "Express", "PostgreSQL", "MongoDB"}},
		},
		Projects: []Project{
			{
				ID:          "1",
				Name:        "Project Alpha",
				Description: "A task management application for teams.",
				Date:        "2021",
				Highlights: []string{
					"Built the frontend using React and Redux for state management.",
					"Implemented real-time updates using WebSockets.",
				},
			},
			{
				ID:          "2",
				Name:        "Project Beta",
				Description: "An open-source library for data visualization.",
				Date:        "2020",
				Highlights: []string{
					"Authored comprehensive documentation and usage examples.",
					"Achieved over 1,000 stars on GitHub.",
				},
			},
		},
		Certifications: []Certification{
			{ID: "1", Name: "AWS Certified Solutions Architect", Issuer: "Amazon Web Services"},
			{ID: "2", Name: "Meta Front-End Developer Certificate", Issuer: "Meta"},
		},
	}
	r.Normalize()
	return r
}
