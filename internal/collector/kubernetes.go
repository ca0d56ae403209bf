package collector

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	yamlv3 "gopkg.in/yaml.v3"
)

func init() {
	Register(func() HintExtractor { return &KubernetesExtractor{} })
}

// KubernetesExtractor names the container images of workload manifests.
type KubernetesExtractor struct{}

func (ke *KubernetesExtractor) Metadata() ExtractorMetadata {
	return ExtractorMetadata{
		Name:        "kubernetes",
		DisplayName: "Kubernetes",
		Description: "Parses Kubernetes manifests for workload container images",
		DetectHint:  "deployment.yaml",
	}
}

func (ke *KubernetesExtractor) Match(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	if ext != ".yml" && ext != ".yaml" {
		return false
	}
	return !(&ComposeExtractor{}).Match(name)
}

// k8sObject holds the fields shared by every workload kind. Pods carry their
// containers directly, controllers in a pod template, CronJobs one level deeper.
type k8sObject struct {
	APIVersion string  `yaml:"apiVersion"`
	Kind       string  `yaml:"kind"`
	Metadata   k8sMeta `yaml:"metadata"`
	Spec       struct {
		k8sPodSpec  `yaml:",inline"`
		Template    k8sPodTemplate `yaml:"template"`
		JobTemplate struct {
			Spec struct {
				Template k8sPodTemplate `yaml:"template"`
			} `yaml:"spec"`
		} `yaml:"jobTemplate"`
	} `yaml:"spec"`
}

type k8sMeta struct {
	Name   string            `yaml:"name"`
	Labels map[string]string `yaml:"labels"`
}

type k8sPodTemplate struct {
	Metadata k8sMeta    `yaml:"metadata"`
	Spec     k8sPodSpec `yaml:"spec"`
}

type k8sPodSpec struct {
	Containers []k8sContainer `yaml:"containers"`
}

type k8sContainer struct {
	Name  string `yaml:"name"`
	Image string `yaml:"image"`
}

func (o *k8sObject) containers() []k8sContainer {
	switch o.Kind {
	case "Pod":
		return o.Spec.Containers
	case "Deployment", "StatefulSet", "DaemonSet", "ReplicaSet", "Job":
		return o.Spec.Template.Spec.Containers
	case "CronJob":
		return o.Spec.JobTemplate.Spec.Template.Spec.Containers
	}
	return nil
}

// Extract reads every document of a manifest. Files without workloads yield
// nothing; once a workload is found "Kubernetes" leads the list.
func (ke *KubernetesExtractor) Extract(f File) ([]string, error) {
	dec := yamlv3.NewDecoder(strings.NewReader(f.Content))

	var names []string
	seen := make(map[string]bool)
	for {
		var obj k8sObject
		err := dec.Decode(&obj)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("yaml parse: %w", err)
		}
		if obj.APIVersion == "" || obj.Kind == "" {
			continue
		}

		for _, c := range obj.containers() {
			svcName := c.Name
			if app, ok := obj.Metadata.Labels["app"]; ok {
				svcName = app
			}
			name := ServiceDisplayName(svcName, c.Image)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}

	if len(names) == 0 {
		return nil, nil
	}
	return append([]string{"Kubernetes"}, names...), nil
}
