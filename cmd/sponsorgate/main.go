// Package main is the entry point for sponsorgate.
//
//	@title			Sponsorgate - Gas Sponsorship Service
//	@version		1.0
//	@description	Sponsors gas for liquidity position transactions on Sui, with per-user daily and monthly limits.
//
//	@contact.name	Sponsorgate Support
//	@contact.url	https://github.com/pearlfi/sponsorgate/issues
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
package main

func main() {
	Execute()
}
