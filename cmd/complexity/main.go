// Command complexity builds a static site from a project directory of
// templates, context data and assets.
package main

func main() {
	Execute()
}
