package generation

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"

	"newsdesk/internal/content"
)

var (
	headlineTemplates = []string{
		"టెక్నాలజీలో కొత్త మార్పు",
		"భారతదేశంలో ముఖ్యమైన పరిణామం",
		"అత్యంత ఆసక్తికరమైన వార్త",
		"నేటి ముఖ్య సంఘటన",
		"తాజా అప్డేట్",
	}

	scriptTemplates = []string{
		"నమస్కారం, ఈ రోజు మనం చర్చించబోయే అంశం చాలా ముఖ్యమైనది. ఇటీవల జరిగిన పరిణామాలు ప్రజల దృష్టిని ఆకర్షించాయి. నిపుణుల అభిప్రాయం ప్రకారం, ఈ మార్పు రాబోయే రోజుల్లో గణనీయమైన ప్రభావాన్ని చూపుతుంది.",
		"హలో వ్యూయర్స్, నేడు మనకు ఒక ప్రత్యేకమైన వార్త ఉంది. ఈ అంశం గురించి మేము వివరణాత్మక విశ్లేషణ చేస్తాము. ఇది మీ జీవితంపై ఎలా ప్రభావం చూపుతుందో తెలుసుకుందాం.",
		"ప్రియమైన వ్యూయర్స్, ఈ రోజు మేము మీకు తెలియజేయబోయే విషయం చాలా ముఖ్యమైనది. ఇది ప్రస్తుత పరిస్థితులను గణనీయంగా ప్రభావితం చేయగలదు. దీని గురించి పూర్తి వివరాలు ఇక్కడ ఉన్నాయి.",
	}

	hashtagGroups = [][]string{
		{"#తెలుగు", "#వార్తలు", "#ట్రెండింగ్", "#ఇండియా"},
		{"#TeluguNews", "#బ్రేకింగ్", "#లేటెస్ట్", "#అప్డేట్"},
		{"#తెలుగువార్తలు", "#హైదరాబాద్", "#తాజావార్త", "#ముఖ్యవార్త"},
	}
	hashtagTail = []string{"#ట్రెండింగ్", "#వైరల్", "#ShortNews", "#Viral"}

	defaultHeadlines = []content.Headline{
		{ID: "h1", Text: "టెక్నాలజీ రంగంలో భారత్ కొత్త విజయం సాధించింది", Selected: true},
		{ID: "h2", Text: "ఆర్టిఫిషియల్ ఇంటెలిజెన్స్ రంగంలో భారత్ ముందుకు"},
		{ID: "h3", Text: "టెక్ పరిశ్రమలో భారతీయ కంపెనీల పురోగతి"},
	}

	defaultScript = content.Script{
		Text:      "నమస్కారం వ్యూయర్స్! ఈ రోజు మనం మాట్లాడుకోబోయేది టెక్నాలజీ రంగంలో భారత్ సాధించిన అద్భుతమైన విజయం గురించి. ఆర్టిఫిషియల్ ఇంటెలిజెన్స్ మరియు మెషిన్ లెర్నింగ్ రంగాలలో భారతీయ పరిశోధకులు కొత్త మైలురాయి సాధించారు. ఈ విజయం ప్రపంచవ్యాప్తంగా ప్రశంసలు అందుకుంటోంది. థాంక్యూ!",
		Duration:  "14 సెకన్లు",
		WordCount: 45,
	}

	defaultHashtags = []string{
		"#తెలుగువార్తలు", "#టెక్నాలజీ", "#ఇండియా", "#AI",
		"#ఆర్టిఫిషియల్ఇంటెలిజెన్స్", "#TeluguNews", "#TechIndia", "#BreakingNews",
	}

	defaultChecklist = []content.ChecklistItem{
		{ID: "bg", Label: "బ్యాక్‌గ్రౌండ్ ఇమేజ్ ఎంపిక చేయండి"},
		{ID: "headline", Label: "హెడ్‌లైన్ టెక్స్ట్ ఓవర్‌లే"},
		{ID: "logo", Label: "చానెల్ లోగో పొజిషన్"},
		{ID: "colors", Label: "కలర్ స్కీమ్ వర్తింపజేయండి"},
		{ID: "preview", Label: "ప్రివ్యూ మరియు రివ్యూ"},
	}
)

// MockGenerator produces local template content. Full generation is fixed;
// a section regeneration draws alternates from a seeded source.
type MockGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewMockGenerator(seed uint64) *MockGenerator {
	return &MockGenerator{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (m *MockGenerator) Generate(_ context.Context, input string, typ content.InputType, section content.Section) (content.Bundle, error) {
	b := content.Bundle{
		OriginalInput:      input,
		Type:               typ,
		Headlines:          slices.Clone(defaultHeadlines),
		Script:             &content.Script{},
		Hashtags:           slices.Clone(defaultHashtags),
		ThumbnailChecklist: slices.Clone(defaultChecklist),
	}
	*b.Script = defaultScript

	m.mu.Lock()
	defer m.mu.Unlock()
	switch section {
	case "":
	case content.SectionHeadlines:
		b.Headlines = make([]content.Headline, 3)
		for i := range b.Headlines {
			b.Headlines[i] = content.Headline{
				ID:       fmt.Sprintf("h%d", i+1),
				Text:     headlineTemplates[m.rnd.IntN(len(headlineTemplates))],
				Selected: i == 0,
			}
		}
	case content.SectionScript:
		text := scriptTemplates[m.rnd.IntN(len(scriptTemplates))]
		*b.Script = content.Script{
			Text:      text,
			Duration:  fmt.Sprintf("%d సెకన్లు", 13+m.rnd.IntN(3)),
			WordCount: content.WordCount(text),
		}
	case content.SectionHashtags:
		group := hashtagGroups[m.rnd.IntN(len(hashtagGroups))]
		b.Hashtags = append(slices.Clone(group), hashtagTail...)
	default:
		return content.Bundle{}, fmt.Errorf("%w: %q", content.ErrUnknownSection, section)
	}
	return b, nil
}
