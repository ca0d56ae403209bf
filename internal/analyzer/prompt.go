package analyzer

import "fmt"

const systemPrompt = "You are a professional software project analyst."

const promptTemplate = `
You are a senior software architect analyzing a GitHub repository.

Your tasks:
1. Write a short and accurate description of what this project does (max 5 lines) under a markdown heading titled ` + "`### Project Description`" + `.
2. Return the list of services the project uses (like databases, APIs, external services, frameworks, etc.) as a **JSON array** under a markdown heading titled ` + "`### Services Used`" + `.

IMPORTANT: The services must be returned as a valid JSON array format like this:
### Services Used
["Python", "Flask", "MongoDB", "AWS S3"]

Focus on:
- Programming languages and frameworks
- Databases and storage services
- Cloud services (AWS, Azure, GCP, etc.)
- External APIs and services
- Development tools and platforms
- Deployment and infrastructure tools

Here is the repository content:
%s
`

func buildPrompt(repoText string) string {
	return fmt.Sprintf(promptTemplate, repoText)
}
