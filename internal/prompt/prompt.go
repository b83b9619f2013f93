package prompt

// DefaultExplainInstruction is sent with an image when the caller gives
// no instruction of their own.
const DefaultExplainInstruction = "Explain this concept simply for a high school student. " +
	"If there are equations, solve them. If there is a diagram, explain its parts."

const noteCleanupInstruction = "Transcribe these handwritten notes into clean, formatted Markdown. " +
	"Correct any obvious spelling errors. Organize with clear headings and bullet points. " +
	"If there are diagrams, describe them briefly in italics."

const studyPlanTemplate = "Create a structured %d-day study plan for the following syllabus/exam: %s.\n" +
	"The output must be a valid JSON array of objects."

const quizTemplate = "Generate %d multiple choice questions for the topic: %s. Difficulty: %s. " +
	"Use the Indian competitive exams context if applicable."

// QuizSize is the number of questions requested per quiz.
const QuizSize = 5
