package fixture

// Sample icons. Legacy projects use the -100px variants; CoMapeo projects
// reference icons by bare name.
var icons100px = map[string]string{
	"airstrip": `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100" viewBox="0 0 100 100">
    <rect x="20" y="40" width="60" height="20" fill="#B209B2" />
    <polygon points="80,50 90,40 90,60" fill="#B209B2" />
  </svg>`,
	"river": `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100" viewBox="0 0 100 100">
    <path d="M10,50 Q25,30 40,50 T70,50 T90,50" stroke="blue" stroke-width="5" fill="none" />
  </svg>`,
	"village": `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100" viewBox="0 0 100 100">
    <rect x="25" y="40" width="50" height="40" fill="brown" />
    <polygon points="25,40 50,10 75,40" fill="red" />
  </svg>`,
	"sacred-site": `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100" viewBox="0 0 100 100">
    <circle cx="50" cy="50" r="40" fill="purple" />
    <polygon points="50,10 60,40 90,40 65,60 75,90 50,70 25,90 35,60 10,40 40,40" fill="yellow" />
  </svg>`,
}

var icons24px = map[string]string{
	"airstrip": `<svg xmlns="http://www.w3.org/2000/svg" width="24" height="24" viewBox="0 0 24 24">
    <rect x="5" y="10" width="14" height="4" fill="#B209B2" />
    <polygon points="19,12 22,10 22,14" fill="#B209B2" />
  </svg>`,
	"river": `<svg xmlns="http://www.w3.org/2000/svg" width="24" height="24" viewBox="0 0 24 24">
    <path d="M2,12 Q6,8 10,12 T18,12 T22,12" stroke="blue" stroke-width="1.5" fill="none" />
  </svg>`,
	"village": `<svg xmlns="http://www.w3.org/2000/svg" width="24" height="24" viewBox="0 0 24 24">
    <rect x="6" y="10" width="12" height="10" fill="brown" />
    <polygon points="6,10 12,2 18,10" fill="red" />
  </svg>`,
	"sacred-site": `<svg xmlns="http://www.w3.org/2000/svg" width="24" height="24" viewBox="0 0 24 24">
    <circle cx="12" cy="12" r="10" fill="purple" />
    <polygon points="12,2 14,10 22,10 16,14 18,22 12,18 6,22 8,14 2,10 10,10" fill="yellow" />
  </svg>`,
}

// iconSet names every icon with its size suffix, plus the bare 100px
// variant when bare is set.
func iconSet(bare bool) map[string]string {
	out := make(map[string]string, len(icons100px)*3)
	for name, svg := range icons100px {
		out[name+"-100px"] = svg
		if bare {
			out[name] = svg
		}
	}
	for name, svg := range icons24px {
		out[name+"-24px"] = svg
	}
	return out
}
