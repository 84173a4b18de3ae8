package geo

import "github.com/Temutjin2k/dispatch-engine/internal/domain/models"

// DakarZones is the fallback table for Dakar neighbourhoods. Order matters:
// shorter names that are substrings of longer ones shadow them.
var DakarZones = Table{
	// Plateau
	{Name: "plateau", Location: models.Location{Lat: 14.6928, Lng: -17.4467}},
	{Name: "place de l'indépendance", Location: models.Location{Lat: 14.6928, Lng: -17.4467}},
	{Name: "rebeuss", Location: models.Location{Lat: 14.6850, Lng: -17.4450}},
	{Name: "port", Location: models.Location{Lat: 14.6800, Lng: -17.4150}},
	{Name: "petersen", Location: models.Location{Lat: 14.6890, Lng: -17.4380}},
	{Name: "sandaga", Location: models.Location{Lat: 14.6750, Lng: -17.4300}},
	{Name: "tilene", Location: models.Location{Lat: 14.6800, Lng: -17.4200}},
	{Name: "kermel", Location: models.Location{Lat: 14.6700, Lng: -17.4350}},
	{Name: "marché sandaga", Location: models.Location{Lat: 14.6750, Lng: -17.4300}},
	{Name: "marché kermel", Location: models.Location{Lat: 14.6700, Lng: -17.4350}},
	{Name: "gare routière", Location: models.Location{Lat: 14.6780, Lng: -17.4400}},
	{Name: "dieuppeul", Location: models.Location{Lat: 14.6900, Lng: -17.4600}},
	{Name: "medina", Location: models.Location{Lat: 14.6738, Lng: -17.4387}},
	{Name: "gueule tapée", Location: models.Location{Lat: 14.6800, Lng: -17.4350}},
	{Name: "gueule tapee", Location: models.Location{Lat: 14.6800, Lng: -17.4350}},

	// Medina, Fass
	{Name: "fass", Location: models.Location{Lat: 14.6820, Lng: -17.4500}},
	{Name: "fass delorme", Location: models.Location{Lat: 14.6850, Lng: -17.4520}},
	{Name: "colobane", Location: models.Location{Lat: 14.6870, Lng: -17.4550}},
	{Name: "gueule tapée fass colobane", Location: models.Location{Lat: 14.6830, Lng: -17.4480}},
	{Name: "ndiolofene", Location: models.Location{Lat: 14.6760, Lng: -17.4420}},
	{Name: "derklé", Location: models.Location{Lat: 14.6790, Lng: -17.4460}},
	{Name: "derkle", Location: models.Location{Lat: 14.6790, Lng: -17.4460}},
	{Name: "reubeuss", Location: models.Location{Lat: 14.6850, Lng: -17.4450}},
	{Name: "somba gueladio", Location: models.Location{Lat: 14.6880, Lng: -17.4380}},
	{Name: "scat urbam", Location: models.Location{Lat: 14.6810, Lng: -17.4490}},
	{Name: "nim", Location: models.Location{Lat: 14.6795, Lng: -17.4365}},
	{Name: "dalifort", Location: models.Location{Lat: 14.7200, Lng: -17.4100}},

	// Fann, Point E, Mermoz
	{Name: "fann", Location: models.Location{Lat: 14.6872, Lng: -17.4535}},
	{Name: "fann résidence", Location: models.Location{Lat: 14.6890, Lng: -17.4550}},
	{Name: "fann residence", Location: models.Location{Lat: 14.6890, Lng: -17.4550}},
	{Name: "point e", Location: models.Location{Lat: 14.6953, Lng: -17.4614}},
	{Name: "point-e", Location: models.Location{Lat: 14.6953, Lng: -17.4614}},
	{Name: "amitié", Location: models.Location{Lat: 14.7014, Lng: -17.4647}},
	{Name: "amitie", Location: models.Location{Lat: 14.7014, Lng: -17.4647}},
	{Name: "sacré-coeur", Location: models.Location{Lat: 14.6937, Lng: -17.4441}},
	{Name: "sacre-coeur", Location: models.Location{Lat: 14.6937, Lng: -17.4441}},
	{Name: "sacre coeur", Location: models.Location{Lat: 14.6937, Lng: -17.4441}},
	{Name: "mermoz", Location: models.Location{Lat: 14.7108, Lng: -17.4682}},
	{Name: "pyrotechnie", Location: models.Location{Lat: 14.6920, Lng: -17.4580}},
	{Name: "cité asecna", Location: models.Location{Lat: 14.7050, Lng: -17.4700}},
	{Name: "cite asecna", Location: models.Location{Lat: 14.7050, Lng: -17.4700}},
	{Name: "sicap baobabs", Location: models.Location{Lat: 14.7100, Lng: -17.4650}},
	{Name: "keur gorgui", Location: models.Location{Lat: 14.7020, Lng: -17.4620}},
	{Name: "fann bel air", Location: models.Location{Lat: 14.6900, Lng: -17.4560}},
	{Name: "fann bel-air", Location: models.Location{Lat: 14.6900, Lng: -17.4560}},

	// Sicap, HLM, Grand Yoff
	{Name: "sicap", Location: models.Location{Lat: 14.7289, Lng: -17.4594}},
	{Name: "hlm", Location: models.Location{Lat: 14.7306, Lng: -17.4542}},
	{Name: "hlm grand yoff", Location: models.Location{Lat: 14.7350, Lng: -17.4600}},
	{Name: "hlm grand-yoff", Location: models.Location{Lat: 14.7350, Lng: -17.4600}},
	{Name: "grand yoff", Location: models.Location{Lat: 14.7400, Lng: -17.4700}},
	{Name: "grand-yoff", Location: models.Location{Lat: 14.7400, Lng: -17.4700}},
	{Name: "village grand yoff", Location: models.Location{Lat: 14.7450, Lng: -17.4750}},
	{Name: "arafat", Location: models.Location{Lat: 14.7380, Lng: -17.4650}},
	{Name: "cité millionnaire", Location: models.Location{Lat: 14.7320, Lng: -17.4570}},
	{Name: "cite millionnaire", Location: models.Location{Lat: 14.7320, Lng: -17.4570}},
	{Name: "sipres", Location: models.Location{Lat: 14.7340, Lng: -17.4610}},
	{Name: "sicap rue 10", Location: models.Location{Lat: 14.7270, Lng: -17.4580}},
	{Name: "sicap amitié", Location: models.Location{Lat: 14.7280, Lng: -17.4600}},
	{Name: "sicap amitie", Location: models.Location{Lat: 14.7280, Lng: -17.4600}},
	{Name: "sicap baobab", Location: models.Location{Lat: 14.7290, Lng: -17.4620}},
	{Name: "sicap mbao", Location: models.Location{Lat: 14.7300, Lng: -17.4560}},
	{Name: "sicap foire", Location: models.Location{Lat: 14.7250, Lng: -17.4550}},
	{Name: "dieuppeul derklé", Location: models.Location{Lat: 14.7150, Lng: -17.4650}},
	{Name: "dieuppeul derkle", Location: models.Location{Lat: 14.7150, Lng: -17.4650}},
	{Name: "camp pénal", Location: models.Location{Lat: 14.7360, Lng: -17.4580}},
	{Name: "camp penal", Location: models.Location{Lat: 14.7360, Lng: -17.4580}},
	{Name: "castors", Location: models.Location{Lat: 14.7420, Lng: -17.4720}},

	// Parcelles Assainies
	{Name: "parcelles assainies", Location: models.Location{Lat: 14.7369, Lng: -17.4731}},
	{Name: "parcelles", Location: models.Location{Lat: 14.7369, Lng: -17.4731}},
	{Name: "unité 1", Location: models.Location{Lat: 14.7300, Lng: -17.4650}},
	{Name: "unite 1", Location: models.Location{Lat: 14.7300, Lng: -17.4650}},
	{Name: "unité 2", Location: models.Location{Lat: 14.7320, Lng: -17.4680}},
	{Name: "unite 2", Location: models.Location{Lat: 14.7320, Lng: -17.4680}},
	{Name: "unité 3", Location: models.Location{Lat: 14.7340, Lng: -17.4710}},
	{Name: "unite 3", Location: models.Location{Lat: 14.7340, Lng: -17.4710}},
	{Name: "unité 4", Location: models.Location{Lat: 14.7360, Lng: -17.4740}},
	{Name: "unite 4", Location: models.Location{Lat: 14.7360, Lng: -17.4740}},
	{Name: "unité 5", Location: models.Location{Lat: 14.7380, Lng: -17.4770}},
	{Name: "unite 5", Location: models.Location{Lat: 14.7380, Lng: -17.4770}},
	{Name: "unité 6", Location: models.Location{Lat: 14.7400, Lng: -17.4800}},
	{Name: "unite 6", Location: models.Location{Lat: 14.7400, Lng: -17.4800}},
	{Name: "unité 7", Location: models.Location{Lat: 14.7420, Lng: -17.4830}},
	{Name: "unite 7", Location: models.Location{Lat: 14.7420, Lng: -17.4830}},
	{Name: "unité 8", Location: models.Location{Lat: 14.7440, Lng: -17.4860}},
	{Name: "unite 8", Location: models.Location{Lat: 14.7440, Lng: -17.4860}},
	{Name: "unité 9", Location: models.Location{Lat: 14.7460, Lng: -17.4890}},
	{Name: "unite 9", Location: models.Location{Lat: 14.7460, Lng: -17.4890}},
	{Name: "unité 10", Location: models.Location{Lat: 14.7480, Lng: -17.4920}},
	{Name: "unite 10", Location: models.Location{Lat: 14.7480, Lng: -17.4920}},
	{Name: "cambérène", Location: models.Location{Lat: 14.7500, Lng: -17.4950}},
	{Name: "camberene", Location: models.Location{Lat: 14.7500, Lng: -17.4950}},
	{Name: "apecsy", Location: models.Location{Lat: 14.7350, Lng: -17.4760}},
	{Name: "apix", Location: models.Location{Lat: 14.7370, Lng: -17.4780}},

	// West: Almadies, Ngor, Yoff, Ouakam
	{Name: "almadies", Location: models.Location{Lat: 14.7247, Lng: -17.5050}},
	{Name: "les almadies", Location: models.Location{Lat: 14.7247, Lng: -17.5050}},
	{Name: "pointe des almadies", Location: models.Location{Lat: 14.7200, Lng: -17.5300}},
	{Name: "ngor", Location: models.Location{Lat: 14.7517, Lng: -17.5192}},
	{Name: "virage ngor", Location: models.Location{Lat: 14.7500, Lng: -17.5150}},
	{Name: "village ngor", Location: models.Location{Lat: 14.7550, Lng: -17.5250}},
	{Name: "ile de ngor", Location: models.Location{Lat: 14.7600, Lng: -17.5350}},
	{Name: "yoff", Location: models.Location{Lat: 14.7500, Lng: -17.4833}},
	{Name: "village yoff", Location: models.Location{Lat: 14.7550, Lng: -17.4900}},
	{Name: "tonghor", Location: models.Location{Lat: 14.7530, Lng: -17.4850}},
	{Name: "aeroport yoff", Location: models.Location{Lat: 14.7400, Lng: -17.4900}},
	{Name: "aéroport yoff", Location: models.Location{Lat: 14.7400, Lng: -17.4900}},
	{Name: "ouakam", Location: models.Location{Lat: 14.7200, Lng: -17.4900}},
	{Name: "cité des eaux", Location: models.Location{Lat: 14.7150, Lng: -17.4950}},
	{Name: "cite des eaux", Location: models.Location{Lat: 14.7150, Lng: -17.4950}},
	{Name: "mamelles", Location: models.Location{Lat: 14.7100, Lng: -17.5000}},
	{Name: "les mamelles", Location: models.Location{Lat: 14.7100, Lng: -17.5000}},
	{Name: "virage", Location: models.Location{Lat: 14.7314, Lng: -17.4636}},
	{Name: "cité sonatel", Location: models.Location{Lat: 14.7250, Lng: -17.4850}},
	{Name: "cite sonatel", Location: models.Location{Lat: 14.7250, Lng: -17.4850}},

	// Liberte, Grand Dakar, Hann
	{Name: "liberté", Location: models.Location{Lat: 14.7186, Lng: -17.4697}},
	{Name: "liberte", Location: models.Location{Lat: 14.7186, Lng: -17.4697}},
	{Name: "liberté 1", Location: models.Location{Lat: 14.7150, Lng: -17.4650}},
	{Name: "liberte 1", Location: models.Location{Lat: 14.7150, Lng: -17.4650}},
	{Name: "liberté 2", Location: models.Location{Lat: 14.7170, Lng: -17.4680}},
	{Name: "liberte 2", Location: models.Location{Lat: 14.7170, Lng: -17.4680}},
	{Name: "liberté 3", Location: models.Location{Lat: 14.7190, Lng: -17.4710}},
	{Name: "liberte 3", Location: models.Location{Lat: 14.7190, Lng: -17.4710}},
	{Name: "liberté 4", Location: models.Location{Lat: 14.7210, Lng: -17.4740}},
	{Name: "liberte 4", Location: models.Location{Lat: 14.7210, Lng: -17.4740}},
	{Name: "liberté 5", Location: models.Location{Lat: 14.7230, Lng: -17.4770}},
	{Name: "liberte 5", Location: models.Location{Lat: 14.7230, Lng: -17.4770}},
	{Name: "liberté 6", Location: models.Location{Lat: 14.7250, Lng: -17.4800}},
	{Name: "liberte 6", Location: models.Location{Lat: 14.7250, Lng: -17.4800}},
	{Name: "grand dakar", Location: models.Location{Lat: 14.6928, Lng: -17.4580}},
	{Name: "grand-dakar", Location: models.Location{Lat: 14.6928, Lng: -17.4580}},
	{Name: "hann", Location: models.Location{Lat: 14.7150, Lng: -17.4380}},
	{Name: "bel air", Location: models.Location{Lat: 14.7100, Lng: -17.4400}},
	{Name: "bel-air", Location: models.Location{Lat: 14.7100, Lng: -17.4400}},
	{Name: "halte de hann", Location: models.Location{Lat: 14.7150, Lng: -17.4380}},
	{Name: "marché hann", Location: models.Location{Lat: 14.7130, Lng: -17.4350}},
	{Name: "marche hann", Location: models.Location{Lat: 14.7130, Lng: -17.4350}},
	{Name: "hann bel air", Location: models.Location{Lat: 14.7120, Lng: -17.4390}},
	{Name: "hann bel-air", Location: models.Location{Lat: 14.7120, Lng: -17.4390}},
	{Name: "hann maristes", Location: models.Location{Lat: 14.7140, Lng: -17.4360}},
	{Name: "patte d'oie", Location: models.Location{Lat: 14.7200, Lng: -17.4500}},
	{Name: "patte d'oie builders", Location: models.Location{Lat: 14.7220, Lng: -17.4520}},

	// Pikine
	{Name: "pikine", Location: models.Location{Lat: 14.7549, Lng: -17.3940}},
	{Name: "pikine nord", Location: models.Location{Lat: 14.7600, Lng: -17.3950}},
	{Name: "pikine est", Location: models.Location{Lat: 14.7550, Lng: -17.3850}},
	{Name: "pikine ouest", Location: models.Location{Lat: 14.7500, Lng: -17.4000}},
	{Name: "pikine sud", Location: models.Location{Lat: 14.7480, Lng: -17.3900}},
	{Name: "thiaroye", Location: models.Location{Lat: 14.7730, Lng: -17.3610}},
	{Name: "thiaroye sur mer", Location: models.Location{Lat: 14.7750, Lng: -17.3550}},
	{Name: "diamaguène", Location: models.Location{Lat: 14.7600, Lng: -17.3800}},
	{Name: "diamaguene", Location: models.Location{Lat: 14.7600, Lng: -17.3800}},
	{Name: "icotaf", Location: models.Location{Lat: 14.7650, Lng: -17.3700}},
	{Name: "guinaw rail", Location: models.Location{Lat: 14.7520, Lng: -17.3880}},

	// Guediawaye
	{Name: "guédiawaye", Location: models.Location{Lat: 14.7690, Lng: -17.3990}},
	{Name: "guediawaye", Location: models.Location{Lat: 14.7690, Lng: -17.3990}},
	{Name: "sam notaire", Location: models.Location{Lat: 14.7700, Lng: -17.4100}},
	{Name: "sam", Location: models.Location{Lat: 14.7700, Lng: -17.4100}},
	{Name: "ndiarème limamoulaye", Location: models.Location{Lat: 14.7720, Lng: -17.4050}},
	{Name: "ndiarem limamoulaye", Location: models.Location{Lat: 14.7720, Lng: -17.4050}},
	{Name: "golf sud", Location: models.Location{Lat: 14.7750, Lng: -17.4200}},
	{Name: "hamo", Location: models.Location{Lat: 14.7770, Lng: -17.4150}},
	{Name: "médina gounass", Location: models.Location{Lat: 14.7680, Lng: -17.3950}},
	{Name: "medina gounass", Location: models.Location{Lat: 14.7680, Lng: -17.3950}},
	{Name: "wakhinane", Location: models.Location{Lat: 14.7730, Lng: -17.4000}},
	{Name: "golf", Location: models.Location{Lat: 14.7750, Lng: -17.4200}},
	{Name: "ndiarème", Location: models.Location{Lat: 14.7720, Lng: -17.4050}},
	{Name: "ndiarem", Location: models.Location{Lat: 14.7720, Lng: -17.4050}},

	// Keur Massar
	{Name: "keur massar", Location: models.Location{Lat: 14.7833, Lng: -17.3167}},
	{Name: "keurmassar", Location: models.Location{Lat: 14.7833, Lng: -17.3167}},
	{Name: "keur massar centre", Location: models.Location{Lat: 14.7833, Lng: -17.3167}},
	{Name: "keur massar ville", Location: models.Location{Lat: 14.7850, Lng: -17.3150}},
	{Name: "keur massar marché", Location: models.Location{Lat: 14.7820, Lng: -17.3180}},
	{Name: "keur massar marche", Location: models.Location{Lat: 14.7820, Lng: -17.3180}},
	{Name: "boune", Location: models.Location{Lat: 14.7950, Lng: -17.3250}},
	{Name: "boune 1", Location: models.Location{Lat: 14.7960, Lng: -17.3240}},
	{Name: "boune 2", Location: models.Location{Lat: 14.7970, Lng: -17.3260}},
	{Name: "boune 3", Location: models.Location{Lat: 14.7980, Lng: -17.3280}},
	{Name: "tivaouane peulh", Location: models.Location{Lat: 14.8050, Lng: -17.3300}},
	{Name: "tivaouane peul", Location: models.Location{Lat: 14.8050, Lng: -17.3300}},
	{Name: "tivaoune peul", Location: models.Location{Lat: 14.8050, Lng: -17.3300}},
	{Name: "tivaouane peulh niaga", Location: models.Location{Lat: 14.8070, Lng: -17.3280}},
	{Name: "jaxaay", Location: models.Location{Lat: 14.7800, Lng: -17.2950}},
	{Name: "djaxaay", Location: models.Location{Lat: 14.7800, Lng: -17.2950}},
	{Name: "jaxaye", Location: models.Location{Lat: 14.7800, Lng: -17.2950}},
	{Name: "jaxaay parcelles", Location: models.Location{Lat: 14.7820, Lng: -17.2920}},
	{Name: "bambilor", Location: models.Location{Lat: 14.7780, Lng: -17.2900}},
	{Name: "yeumbeul", Location: models.Location{Lat: 14.7720, Lng: -17.3420}},
	{Name: "yembeul", Location: models.Location{Lat: 14.7720, Lng: -17.3420}},
	{Name: "yeumbeul nord", Location: models.Location{Lat: 14.7750, Lng: -17.3400}},
	{Name: "yeumbeul sud", Location: models.Location{Lat: 14.7700, Lng: -17.3450}},
	{Name: "malika", Location: models.Location{Lat: 14.7800, Lng: -17.3600}},
	{Name: "malika centre", Location: models.Location{Lat: 14.7800, Lng: -17.3600}},
	{Name: "mbeubeuss", Location: models.Location{Lat: 14.7750, Lng: -17.3000}},
	{Name: "mbeubeus", Location: models.Location{Lat: 14.7750, Lng: -17.3000}},
	{Name: "ndiaganiao", Location: models.Location{Lat: 14.7900, Lng: -17.3050}},
	{Name: "cité keur damel", Location: models.Location{Lat: 14.7860, Lng: -17.3200}},
	{Name: "cite keur damel", Location: models.Location{Lat: 14.7860, Lng: -17.3200}},
	{Name: "diamaguène sicap mbao", Location: models.Location{Lat: 14.7650, Lng: -17.3100}},
	{Name: "diamaguene sicap mbao", Location: models.Location{Lat: 14.7650, Lng: -17.3100}},
	{Name: "mbao", Location: models.Location{Lat: 14.7300, Lng: -17.3200}},

	// Outskirts
	{Name: "rufisque", Location: models.Location{Lat: 14.7167, Lng: -17.2667}},
	{Name: "bargny", Location: models.Location{Lat: 14.7000, Lng: -17.2167}},
	{Name: "sangalkam", Location: models.Location{Lat: 14.8000, Lng: -17.2500}},
}
