// Command potential fetches activity records and serves the activity catalog.
//
//	potential fetch --endpoint http://localhost:8080/api/activities
//	potential serve -c server.yaml
package main

func main() {
	execute()
}
