package locale

// Built-in display labels. These are the handful of strings the builder
// generates itself; everything else comes from user-entered bilingual names.
var (
	StepLabel = Name{En: "Step", Ar: "خطوة"}
	SeeMore   = Name{En: "See more", Ar: "عرض المزيد"}
)
