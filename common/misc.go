package common

import (
	"os"
)

var serviceInstance string

func GetServiceName() string {
	name := os.Getenv("SERVICE_NAME")
	if name == "" {
		return "projman"
	}
	return name
}

func GetServiceInstance() string {
	if serviceInstance == "" {
		hostname, err := os.Hostname()
		if err != nil {
			return "unknown"
		}
		serviceInstance = hostname
	}
	return serviceInstance
}
