package params

// Resource and operation names registered by StatusCake.
const (
	ResourceTest    = "test"
	OperationCreate = "create"
	OperationUpdate = "update"
)

// Defaults applied by the create schema when the caller leaves them out.
const (
	DefaultCheckRate = 300
	DefaultTestType  = "HTTP"
)

// testFields lists every form field accepted by Tests/Update, in API order.
var testFields = []string{
	"TestID",
	"Paused",
	"WebsiteName",
	"WebsiteURL",
	"Port",
	"NodeLocations",
	"Timeout",
	"PingURL",
	"Confirmation",
	"CheckRate",
	"BasicUser",
	"BasicPass",
	"Public",
	"LogoImage",
	"Branding",
	"WebsiteHost",
	"Virus",
	"FindString",
	"DoNotFind",
	"TestType",
	"ContactGroup",
	"RealBrowser",
	"TriggerRate",
	"TestTags",
	"StatusCodes",
}

var statusCake = NewSchema(
	Definition{
		Resource:  ResourceTest,
		Operation: OperationCreate,
		Fields: override(testFields, map[string]FieldSpec{
			"WebsiteName": Required("WebsiteName"),
			"WebsiteURL":  Required("WebsiteURL"),
			"CheckRate":   RequiredWithDefault("CheckRate", DefaultCheckRate),
			"TestType":    RequiredWithDefault("TestType", DefaultTestType),
		}),
	},
	Definition{
		Resource:  ResourceTest,
		Operation: OperationUpdate,
		Fields: override(testFields, map[string]FieldSpec{
			"TestID": Required("TestID"),
		}),
	},
)

// StatusCake returns the shared schema registry for the StatusCake API.
func StatusCake() *Schema {
	return statusCake
}

// IsTestField reports whether name is a form field of the test resource.
func IsTestField(name string) bool {
	for _, f := range testFields {
		if f == name {
			return true
		}
	}
	return false
}

func override(names []string, specs map[string]FieldSpec) []FieldSpec {
	fields := make([]FieldSpec, 0, len(names))
	for _, name := range names {
		if spec, ok := specs[name]; ok {
			fields = append(fields, spec)
			continue
		}
		fields = append(fields, Optional(name))
	}
	return fields
}
