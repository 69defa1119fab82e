package catalog

type seedPrompt struct {
	context  string
	question string
}

type seedTopic struct {
	name        string
	description string
	prompts     []seedPrompt
}

// builtinTopics is the catalog used when no EQ backend is configured.
var builtinTopics = []seedTopic{
	{
		name: "Love",
		description: "Understanding your own feelings and your partner's, building a lasting " +
			"relationship, listening and sharing in romance.",
		prompts: []seedPrompt{
			{
				"Your partner forgot your anniversary dinner and made plans with friends instead.",
				"How do you feel, and what do you say to them?",
			},
			{
				"During an argument your partner says you never listen to them.",
				"How do you respond in the moment?",
			},
			{
				"Your partner has been quiet and distant for several days but says everything is fine.",
				"What do you do?",
			},
			{
				"You notice you feel jealous when your partner spends time with a close friend of theirs.",
				"How do you handle that feeling?",
			},
			{
				"Your partner gets a job offer in another city that would be great for their career.",
				"How do you approach the conversation?",
			},
		},
	},
	{
		name: "Workplace",
		description: "Communication, collaboration and conflict resolution at work; emotional " +
			"intelligence in a professional setting.",
		prompts: []seedPrompt{
			{
				"A colleague presents your idea in a meeting as their own.",
				"What do you do, during and after the meeting?",
			},
			{
				"Your manager criticizes your work in front of the whole team.",
				"How do you react?",
			},
			{
				"A teammate keeps missing deadlines, and it is putting the project at risk.",
				"How do you raise it with them?",
			},
			{
				"You made a mistake that cost the team a day of work, and nobody has noticed yet.",
				"What do you do?",
			},
			{
				"Two people on your team are in open conflict, and the mood at work is getting worse.",
				"How would you help?",
			},
		},
	},
	{
		name: "Family",
		description: "Empathy, listening and connection between family members; nurturing " +
			"positive feelings at home.",
		prompts: []seedPrompt{
			{
				"Your parents criticize a major life decision you have already made.",
				"How do you respond?",
			},
			{
				"Your younger sibling borrows your things without asking, again.",
				"What do you say to them?",
			},
			{
				"A family dinner turns into a heated argument about politics.",
				"What do you do?",
			},
			{
				"An elderly relative keeps calling you for help with small tasks while you are busy.",
				"How do you handle it?",
			},
			{
				"Your parent seems stressed and snaps at you for something minor.",
				"How do you react?",
			},
		},
	},
	{
		name: "Friends",
		description: "Building, keeping and growing friendships through honesty, sharing and " +
			"emotional sensitivity.",
		prompts: []seedPrompt{
			{
				"A close friend cancels plans with you at the last minute for the third time this month.",
				"How do you respond?",
			},
			{
				"You find out a friend shared something you told them in confidence.",
				"What do you do?",
			},
			{
				"A friend is going through a breakup and calls you late at night to talk.",
				"How do you support them?",
			},
			{
				"Your friend asks for honest feedback on a business plan you think will fail.",
				"What do you tell them?",
			},
			{
				"You were not invited to a gathering that the rest of your friend group attended.",
				"How do you feel, and what do you do?",
			},
		},
	},
}
