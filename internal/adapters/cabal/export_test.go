package cabal

// Exported for white-box tests.
var (
	ParsePlanOutput      = parsePlanOutput
	ParseRegistryListing = parseRegistryListing
	ParseGhcPkgVersion   = parseGhcPkgVersion
	FlavorArch           = flavorArch
	FlavorOS             = flavorOS
)
