// Command kitdemo serves a small todo application built on the actions
// pipeline. Submissions work both as plain HTML forms and as fetch requests
// asking for application/json.
package main

func main() {
	Execute()
}
