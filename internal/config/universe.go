package config

// DefaultTickers is the BIST 100 basket scanned when no subset is configured.
var DefaultTickers = []string{
	"AEFES", "AGHOL", "AKBNK", "AKSA", "AKSEN", "ALARK", "ALTNY",
	"ANSGR", "ARCLK", "ASELS", "ASTOR", "BALSU", "BIMAS", "BINHO",
	"BRMEN", "BRSAN", "BRYAT", "BSOKE", "BTCIM", "CANTE", "CCOLA",
	"CIMSA", "DOAS", "DOHOL", "ECILC", "ECZYT", "EGEEN", "EKGYO",
	"ENERY", "ENJSA", "ENKAI", "ERBOS", "EREGL", "EUREN", "FROTO",
	"GARAN", "GENIL", "GENTS", "GESAN", "GLYHO", "GOLTS", "GOZDE",
	"GSDHO", "GUBRF", "GWIND", "HALKB", "HEKTS", "IEYHO", "IMASM",
	"INDES", "IPEKE", "ISCTR", "ISDMR", "ISGYO", "ISMEN", "KARSN",
	"KARTN", "KCHOL", "KLSER", "KONTR", "KONYA", "KOZAA", "KOZAL",
	"KRDMD", "MAVI", "METUR", "MGROS", "MIATK", "ODAS", "OTKAR",
	"OYAKC", "OYYAT", "PAMEL", "PARSN", "PETKM", "PGSUS", "PSGYO",
	"QUAGR", "REEDR", "SAHOL", "SASA", "SAYAS", "SELEC", "SISE",
	"SKBNK", "SMART", "SMRTG", "SNGYO", "SOKM", "SRVGY", "TAVHL",
	"TCELL", "THYAO", "TKFEN", "TKNSA", "TOASO", "TRGYO", "TSKB",
	"TTKOM", "TTRAK", "TUKAS", "TUPRS", "ULKER", "VAKBN", "VESTL",
	"YEOTK", "YKBNK", "YYLGD", "ZOREN",
}

func inUniverse(ticker string) bool {
	for _, t := range DefaultTickers {
		if t == ticker {
			return true
		}
	}
	return false
}
