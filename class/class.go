package class

func init() {
	registerClasses()
}

func registerClasses() {
	registerCommonClasses()
	registerConfigClasses()
	registerTraitsClasses()
	registerDatatypeClasses()
	registerStorageClasses()
	registerAnalyzerClasses()
	registerReaderClasses()
}
