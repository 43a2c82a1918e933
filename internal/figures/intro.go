package figures

// Introduction is the markdown shown above the figures.
const Introduction = `According to an article published by the [Economic Policy Institute](https://www.epi.org/blog/gender-wage-gap-persists-in-2023-women-are-paid-roughly-22-less-than-men-on-average/), the gender wage gap is still there in 2023. On average, women are paid approximately 21.8% less than men. The study took into account various factors such as race, ethnicity, education, age, and geographic location while comparing the pay gap between men and women in the United States. Another article by the [Pew Research Center](https://www.pewresearch.org/short-reads/2023/03/01/gender-pay-gap-facts/) also highlights that there has been little change in the pay gap in the U.S. over the past two decades.

The [General Social Survey](https://gss.norc.org/About-The-GSS) (GSS) has surveyed adults in the U.S. since 1972. According to [Wikipedia](https://en.wikipedia.org/wiki/General_Social_Survey), the GSS was created by the National Opinion Research Center (NORC) at the University of Chicago and is funded by the National Science Foundation. The GSS collects data on demographic, behavioral, and attitudinal trends, and on topics of special interest. It is widely regarded as one of the best sources of data on social trends.
`
