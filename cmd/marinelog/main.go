// Command marinelog decodes marine electronics files from Lowrance,
// Garmin, Humminbird and Raymarine units into a common model and exports
// them as JSON, msgpack, CSV, GPX or XLSX.
package main

func main() {
	Execute()
}
