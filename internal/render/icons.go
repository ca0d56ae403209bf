package render

import "strings"

const (
	terrastruct = "https://icons.terrastruct.com"
	selfhst     = "https://cdn.jsdelivr.net/gh/selfhst/icons/svg"
)

// iconRegistry maps lower-case technology keywords to icon URLs.
var iconRegistry = map[string]string{
	// Web servers / frameworks
	"flask":   selfhst + "/flask.svg",
	"django":  selfhst + "/django.svg",
	"express": selfhst + "/express.svg",
	"node":    terrastruct + "/dev/nodejs.svg",
	"spring":  selfhst + "/spring.svg",
	"nginx":   terrastruct + "/dev/nginx.svg",
	"apache":  terrastruct + "/dev/apache.svg",

	// Databases
	"postgres": terrastruct + "/dev/postgresql.svg",
	"mysql":    terrastruct + "/dev/mysql.svg",
	"mongodb":  selfhst + "/mongodb.svg",
	"redis":    terrastruct + "/dev/redis.svg",
	"sqlite":   selfhst + "/sqlite.svg",

	// Cloud
	"ec2":    terrastruct + "/aws/Compute/Amazon-EC2.svg",
	"lambda": terrastruct + "/aws/Compute/AWS-Lambda.svg",
	"ecs":    terrastruct + "/aws/Compute/Amazon-Elastic-Container-Service.svg",
	"s3":     terrastruct + "/aws/Storage/Amazon-Simple-Storage-Service-S3.svg",
	"aws":    terrastruct + "/aws/_General/AWS.svg",
	"azure":  terrastruct + "/azure/_General/Azure.svg",
	"gcp":    terrastruct + "/gcp/Products%20and%20services/Compute/Compute%20Engine.svg",

	// Containers
	"docker":     terrastruct + "/dev/docker.svg",
	"kubernetes": terrastruct + "/dev/kubernetes.svg",
	"podman":     selfhst + "/podman.svg",

	// Frontend
	"react":      terrastruct + "/dev/react.svg",
	"vue":        selfhst + "/vue.svg",
	"angular":    terrastruct + "/dev/angular.svg",
	"javascript": terrastruct + "/dev/javascript.svg",
	"html":       terrastruct + "/dev/html5.svg",
	"css":        terrastruct + "/dev/css3.svg",

	// API / messaging / auth
	"graphql":  selfhst + "/graphql.svg",
	"kafka":    selfhst + "/apache-kafka.svg",
	"rabbitmq": selfhst + "/rabbitmq.svg",
	"auth0":    selfhst + "/auth0.svg",

	// Languages
	"python": terrastruct + "/dev/python.svg",
	"go":     selfhst + "/golang.svg",
}

// LookupIcon returns the icon URL for a service name.
func LookupIcon(service string) string {
	lower := strings.ToLower(service)

	// Try exact name match
	if url, ok := iconRegistry[lower]; ok {
		return url
	}

	// Try the longest keyword contained in the name, so "node" does not shadow "mongodb"
	best := ""
	for key := range iconRegistry {
		if !strings.Contains(lower, key) {
			continue
		}
		if len(key) > len(best) || (len(key) == len(best) && key < best) {
			best = key
		}
	}
	if best != "" {
		return iconRegistry[best]
	}

	return ""
}
