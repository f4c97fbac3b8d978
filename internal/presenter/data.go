package presenter

var dataset = []Presenter{
	{1, "Wearable Sensors for Early Detection of Heat Injury in Training Environments", "M. Alvarez, J. Chen, R. Patel", "Uniformed Services University", "Digital Health"},
	{2, "Whole Blood Transfusion Outcomes in Prolonged Field Care", "S. Okafor, L. Brennan", "Army Institute of Surgical Research", "Trauma & Combat Care"},
	{3, "Machine Learning Triage of Blast-Related Traumatic Brain Injury", "K. Nguyen, D. Feldman, A. Ruiz", "Walter Reed National Military Medical Center", "Digital Health"},
	{4, "Resilience Training and Post-Deployment Sleep Quality", "T. Hughes, P. Ramirez", "Naval Health Research Center", "Behavioral Health"},
	{5, "A Low-Cost Junctional Tourniquet for Austere Settings", "E. Park, G. Thompson", "Texas A&M University", "Medical Devices"},
	{6, "Telehealth Follow-Up After Musculoskeletal Injury", "R. Singh, C. Morales, H. Lee", "Brooke Army Medical Center", "Digital Health"},
	{7, "Prehospital Tranexamic Acid Dosing: A Retrospective Cohort", "J. Wallace, N. Ibrahim", "University of Texas Health San Antonio", "Clinical Research"},
	{8, "Peer Support Networks and Suicide Risk Reduction", "A. Castillo, B. Greene", "Defense Health Agency", "Behavioral Health"},
	{9, "Portable Ultrasound Guidance for Vascular Access", "L. Brennan, F. Ortiz", "Madigan Army Medical Center", "Medical Devices"},
	{10, "Biomarkers of Hemorrhagic Shock in Swine Models", "D. Feldman, Y. Tanaka", "Army Institute of Surgical Research", "Clinical Research"},
	{11, "Burn Wound Coverage With Spray-On Skin Cells", "M. Alvarez, O. Bassey", "Institute of Surgical Research", "Trauma & Combat Care"},
	{12, "Natural Language Processing of Medic Field Notes", "H. Lee, S. Kowalski", "Uniformed Services University", "Digital Health"},
	{13, "Closed-Loop Fluid Resuscitation Controller", "G. Thompson, R. Patel", "Johns Hopkins Applied Physics Laboratory", "Medical Devices"},
	{14, "Mild TBI Return-to-Duty Decision Support", "C. Morales, V. Dubois", "Naval Medical Center San Diego", "Clinical Research"},
}

// All returns the bundled presenters in source order. The slice is a copy.
func All() []Presenter {
	out := make([]Presenter, len(dataset))
	copy(out, dataset)
	return out
}
