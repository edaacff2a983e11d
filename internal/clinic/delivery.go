package clinic

// DeliveryMethod is the modality of service delivery. The numeric values are
// the wire contract and must not change.
type DeliveryMethod int

const (
	HomeService   DeliveryMethod = 0
	InPerson      DeliveryMethod = 1
	OnlineSession DeliveryMethod = 2
)

// String returns the display name. Unknown values present as "Unknown".
func (m DeliveryMethod) String() string {
	switch m {
	case HomeService:
		return "Home Service"
	case InPerson:
		return "In-Person"
	case OnlineSession:
		return "Online Session"
	default:
		return "Unknown"
	}
}

// Valid reports whether m is one of the defined delivery methods.
func (m DeliveryMethod) Valid() bool {
	switch m {
	case HomeService, InPerson, OnlineSession:
		return true
	default:
		return false
	}
}

// ParseDeliveryMethod maps a display name to its wire value.
func ParseDeliveryMethod(name string) (DeliveryMethod, bool) {
	switch name {
	case "Home Service":
		return HomeService, true
	case "In-Person":
		return InPerson, true
	case "Online Session":
		return OnlineSession, true
	default:
		return 0, false
	}
}

// DeliveryMethodNames resolves the upstream profile's numeric method codes
// ("0", "1", "2") to display names. Unrecognized codes pass through verbatim.
func DeliveryMethodNames(codes []string) []string {
	names := make([]string, 0, len(codes))
	for _, c := range codes {
		switch c {
		case "0":
			names = append(names, HomeService.String())
		case "1":
			names = append(names, InPerson.String())
		case "2":
			names = append(names, OnlineSession.String())
		default:
			names = append(names, c)
		}
	}
	return names
}
