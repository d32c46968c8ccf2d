// Package smoketests contains the FECO API smoke tests themselves and their supporting API.
//
// Each step drives a live FECO backend through a client.Client and fails with a descriptive
// error when a status code or a response field is not what a correctly deployed backend would
// return. Steps run in a fixed order and hand identifiers of the entities they create to later
// steps through the run's framework.Shared store.
//
// Infrastructure that is not specific to FECO, such as running steps and reporting results, is
// in the lower-level framework package.
package smoketests
