// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

package address

import (
	"regexp"

	"github.com/pollosandino/andino/utils/textutils"
)

// Detection is the outcome of the international-address check.
type Detection struct {
	IsInternational bool
	Country         string
	Message         string
}

// All patterns below run against accent-folded lowercase text, so they are
// written in plain ASCII ("bogota" matches both "bogota" and "bogotá").

// colombianIndicators are strong signals that an address is domestic. They
// are evaluated BEFORE any international pattern because many international
// city names collide with Colombian place names ("San Diego" is a Medellín
// neighborhood). A match here short-circuits the whole detector.
var colombianIndicators = []*regexp.Regexp{
	// Named cities and the country itself
	regexp.MustCompile(`\b(colombia|bogota|medellin|cali|barranquilla|cartagena|bucaramanga|pereira|manizales|villavicencio|santa marta|pasto|cucuta|ibague|soledad|soacha|monteria|valledupar|bello|itagui|palmira|sincelejo|envigado|tunja|florencia|maicao|riohacha|yopal|mocoa|leticia|puerto carreno|mitu|san jose del guaviare|quibdo|puerto inirida|san andres)\b`),
	// Departments
	regexp.MustCompile(`\b(cundinamarca|antioquia|valle del cauca|atlantico|bolivar|santander|narino|cordoba|tolima|huila|norte de santander|cauca|magdalena|la guajira|boyaca|casanare|meta|sucre|cesar|caldas|risaralda|quindio|choco|caqueta|putumayo|arauca|amazonas|guainia|guaviare|vaupes|vichada)\b`),
	// Road type followed by a number is unmistakably Colombian nomenclature
	regexp.MustCompile(`\b(cra|carrera|calle|cl|kr|dg|diagonal|tv|transversal|av|avenida)\s*\d+`),
}

type countryPattern struct {
	pattern *regexp.Regexp
	country string
	message string
}

const (
	msgUSA           = "🇺🇸 Detecté una dirección en Estados Unidos. Solo realizamos entregas en Colombia."
	msgInternational = "🌍 Esta dirección parece ser internacional. Solo realizamos entregas en Colombia."
)

// internationalPatterns is evaluated in order; the first match wins.
var internationalPatterns = []countryPattern{
	// United States: explicit city names first
	{regexp.MustCompile(`\b(new york|manhattan|brooklyn|los angeles|miami|chicago|houston|phoenix|philadelphia|dallas|austin|jacksonville|fort worth|columbus|charlotte|detroit|el paso|seattle|denver|washington dc|boston|nashville|baltimore|oklahoma city|portland|las vegas|louisville|milwaukee|albuquerque|tucson|fresno|sacramento|kansas city|atlanta|long beach|colorado springs|raleigh|virginia beach|omaha|minneapolis|tulsa|cleveland|wichita|arlington)\b`), "Estados Unidos", msgUSA},
	// "san antonio" / "san diego" only with US context; bare names exist in Colombia
	{regexp.MustCompile(`\bsan (antonio|diego),?\s+(california|texas|ca|tx|usa|united states)\b`), "Estados Unidos", msgUSA},
	{regexp.MustCompile(`\b(usa|united states|america|us|ny|ca|tx|fl|il|pa|oh|ga|nc|mi|nj|va|wa|az|ma|tn|in|mo|md|wi|co|mn|sc|al|la|ky|or|ok|ct|ia|ms|ar|ut|ks|nv|nm|ne|wv|id|hi|nh|me|ri|mt|de|sd|nd|ak|vt|wy)\b`), "Estados Unidos", msgUSA},

	{regexp.MustCompile(`\b(madrid|barcelona|valencia|sevilla|zaragoza|malaga|murcia|palma|las palmas|bilbao|alicante|valladolid|vigo|gijon|hospitalet|vitoria|granada|elche|oviedo|badalona|terrassa|jerez|sabadell|mostoles|alcala|pamplona|fuenlabrada|almeria|leganes)\b`), "España", "🇪🇸 Detecté una dirección en España. Solo realizamos entregas en Colombia."},
	{regexp.MustCompile(`\b(espana|spain|spanish)\b`), "España", "🇪🇸 Detecté una dirección en España. Solo realizamos entregas en Colombia."},

	{regexp.MustCompile(`\b(mexico|ciudad de mexico|guadalajara|monterrey|puebla|tijuana|leon|juarez|zapopan|chihuahua|naucalpan|merida|san luis potosi|aguascalientes|hermosillo|saltillo|mexicali|culiacan|acapulco|cancun|queretaro|reynosa|tuxtla|durango|toluca|morelia|xalapa|veracruz|villahermosa|irapuato|cuernavaca|oaxaca|tampico|mazatlan)\b`), "México", "🇲🇽 Detecté una dirección en México. Solo realizamos entregas en Colombia."},

	{regexp.MustCompile(`\b(argentina|buenos aires|rosario|mendoza|tucuman|la plata|mar del plata|salta|santa fe|san juan|neuquen|resistencia|santiago del estero|corrientes|posadas|bahia blanca|parana|formosa|san luis|la rioja|rio cuarto|comodoro rivadavia|san rafael|concordia|san salvador)\b`), "Argentina", "🇦🇷 Detecté una dirección en Argentina. Solo realizamos entregas en Colombia."},

	{regexp.MustCompile(`\b(brasil|brazil|sao paulo|rio de janeiro|brasilia|salvador|fortaleza|belo horizonte|manaus|curitiba|recife|goiania|belem|porto alegre|guarulhos|campinas|maceio|sao luis|natal|teresina|campo grande|santos|joao pessoa|osasco|ribeirao preto|uberlandia|sorocaba|contagem|aracaju|cuiaba|joinville|juiz de fora|londrina|niteroi|porto velho|florianopolis|vila velha|caxias do sul|macapa|pelotas|canoas|vitoria|jundiai|piracicaba|franca|anapolis|bauru|petropolis|blumenau|boa vista|cascavel|santa maria|diadema|betim|campina grande|maringa|olinda|sao jose dos campos|montes claros|suzano|gravatai|sobral|sao leopoldo|dourados|americana|rio branco|novo hamburgo)\b`), "Brasil", "🇧🇷 Detecté una dirección en Brasil. Solo realizamos entregas en Colombia."},

	{regexp.MustCompile(`\b(chile|santiago|valparaiso|concepcion|la serena|antofagasta|temuco|rancagua|talca|arica|chillan|iquique|puerto montt|calama|coquimbo|osorno|valdivia|punta arenas|copiapo|quillota|curico|ovalle|melipilla|san felipe|linares|tarapaca|cauquenes|castro|ancud|villarrica|angol)\b`), "Chile", "🇨🇱 Detecté una dirección en Chile. Solo realizamos entregas en Colombia."},
	{regexp.MustCompile(`\bsan antonio,?\s+(chile|region de valparaiso)\b`), "Chile", "🇨🇱 Detecté una dirección en Chile. Solo realizamos entregas en Colombia."},

	{regexp.MustCompile(`\b(france|francia|paris|lyon|marseille)\b`), "Francia", "🇫🇷 Detecté una dirección en Francia. Solo realizamos entregas en Colombia."},
	{regexp.MustCompile(`\b(italy|italia|rome|milan|naples|turin)\b`), "Italia", "🇮🇹 Detecté una dirección en Italia. Solo realizamos entregas en Colombia."},
	{regexp.MustCompile(`\b(germany|alemania|berlin|hamburg|munich|cologne)\b`), "Alemania", "🇩🇪 Detecté una dirección en Alemania. Solo realizamos entregas en Colombia."},
	{regexp.MustCompile(`\b(canada|toronto|montreal|vancouver|ottawa|calgary)\b`), "Canadá", "🇨🇦 Detecté una dirección en Canadá. Solo realizamos entregas en Colombia."},
	{regexp.MustCompile(`\b(uk|united kingdom|london|manchester|birmingham|glasgow|liverpool)\b`), "Reino Unido", "🇬🇧 Detecté una dirección en Reino Unido. Solo realizamos entregas en Colombia."},

	// Generic foreign street nomenclature and postal-code phrasing
	{regexp.MustCompile(`\b\d+\s+(st|street|ave|avenue|blvd|boulevard|rd|road|ln|lane|dr|drive|ct|court|pl|place|way)\b`), "Internacional", msgInternational},
	{regexp.MustCompile(`\b(zip code|postal code|postcode)\s*:?\s*\d+`), "Internacional", "🌍 Detecté un código postal internacional. Solo realizamos entregas en Colombia."},
}

// DetectInternational classifies the text as belonging to a non-Colombian
// place. Colombian indicators always win over international ones.
func DetectInternational(address string) Detection {
	folded := textutils.LowerASCIIFolding(address)

	for _, re := range colombianIndicators {
		if re.MatchString(folded) {
			return Detection{}
		}
	}

	for _, cp := range internationalPatterns {
		if cp.pattern.MatchString(folded) {
			return Detection{
				IsInternational: true,
				Country:         cp.country,
				Message:         cp.message,
			}
		}
	}

	return Detection{}
}
