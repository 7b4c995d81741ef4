// Package config loads the responder's YAML configuration file.
//
// The file holds the network settings of the responder and the list of
// service descriptors it answers for. Params and services are YAML mappings
// whose order matters (fields resolve in declaration order), so they are
// decoded from yaml.Node rather than into Go maps.
//
// # Configuration File Location
//
// When no path is given the file is looked up in the platform location:
//   - Linux: $XDG_CONFIG_HOME/staticssdp/config.yaml or $HOME/.config/staticssdp/config.yaml
//   - macOS: $HOME/.config/staticssdp/config.yaml
//   - Windows: %LOCALAPPDATA%\staticssdp\config.yaml
//
// # Usage Example
//
//	file, err := config.Load(path)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	descriptors := file.ServiceDescriptors()
//
// # Computed params
//
// A param written as a mapping with a single "computed" key is evaluated on
// every render instead of being a fixed string:
//
//	params:
//	  uuid: {computed: uuid}
//	  date: {computed: http_date}
//
// Load rejects names that are not registered producers.
package config
